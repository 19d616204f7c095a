package model

import "time"

type LoadStatus string

const (
	LoadPosted      LoadStatus = "POSTED"
	LoadOpenForBids LoadStatus = "OPEN_FOR_BIDS"
	LoadBooked      LoadStatus = "BOOKED"
	LoadCancelled   LoadStatus = "CANCELLED"
)

// Load is a shipper's request to move cargo with a number of trucks of one type.
// RemainingTrucks counts unfulfilled capacity: it equals NoOfTrucks minus the
// allocations of all CONFIRMED bookings, stays within [0, NoOfTrucks] and drives
// the OPEN_FOR_BIDS -> BOOKED transition. Version is the optimistic-concurrency
// token, bumped by the store on every successful save.
type Load struct {
	LoadID          string     `json:"load_id"`
	ShipperID       string     `json:"shipper_id"`
	LoadingCity     string     `json:"loading_city"`
	UnloadingCity   string     `json:"unloading_city"`
	LoadingDate     time.Time  `json:"loading_date"`
	ProductType     string     `json:"product_type"`
	Weight          float64    `json:"weight"`
	WeightUnit      string     `json:"weight_unit"`
	TruckType       string     `json:"truck_type"`
	NoOfTrucks      int        `json:"no_of_trucks"`
	RemainingTrucks int        `json:"remaining_trucks"`
	Status          LoadStatus `json:"status"`
	DatePosted      time.Time  `json:"date_posted"`
	Version         int64      `json:"version"`
}

// Biddable reports whether new bids may be admitted against the load.
func (l *Load) Biddable() bool {
	return l.Status == LoadPosted || l.Status == LoadOpenForBids
}

// Cancellable reports whether an explicit shipper cancel is legal. BOOKED loads
// can only leave BOOKED through booking reversal, never through a direct cancel.
func (l *Load) Cancellable() bool {
	return l.Status == LoadPosted || l.Status == LoadOpenForBids
}
