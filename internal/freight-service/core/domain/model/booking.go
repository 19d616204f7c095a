package model

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is the confirmed allocation produced by accepting a bid. A bid
// yields at most one booking. TruckType is copied from the load at creation
// so a later fleet replacement cannot change what reversal restores.
// CANCELLED is terminal.
type Booking struct {
	BookingID       string        `json:"booking_id"`
	LoadID          string        `json:"load_id"`
	BidID           string        `json:"bid_id"`
	TransporterID   string        `json:"transporter_id"`
	AllocatedTrucks int           `json:"allocated_trucks"`
	FinalRate       float64       `json:"final_rate"`
	TruckType       string        `json:"truck_type"`
	Status          BookingStatus `json:"status"`
	BookedAt        time.Time     `json:"booked_at"`
	Version         int64         `json:"version"`
}
