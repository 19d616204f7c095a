package eventdto

import "time"

// Events published to the freight topic exchange after an atomic unit commits.
// Routing keys follow "load.<action>", "bid.<action>" and
// "booking.<action>.<truck_type>".

type LoadEvent struct {
	Action        string    `json:"action"` // posted, cancelled
	LoadID        string    `json:"load_id"`
	ShipperID     string    `json:"shipper_id"`
	TruckType     string    `json:"truck_type"`
	LoadingCity   string    `json:"loading_city"`
	UnloadingCity string    `json:"unloading_city"`
	NoOfTrucks    int       `json:"no_of_trucks"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type BidEvent struct {
	Action        string    `json:"action"` // submitted, rejected
	BidID         string    `json:"bid_id"`
	LoadID        string    `json:"load_id"`
	TransporterID string    `json:"transporter_id"`
	ProposedRate  float64   `json:"proposed_rate"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type BookingEvent struct {
	Action          string    `json:"action"` // created, cancelled
	BookingID       string    `json:"booking_id"`
	LoadID          string    `json:"load_id"`
	BidID           string    `json:"bid_id"`
	TransporterID   string    `json:"transporter_id"`
	TruckType       string    `json:"truck_type"`
	AllocatedTrucks int       `json:"allocated_trucks"`
	FinalRate       float64   `json:"final_rate"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Notification is pushed to a transporter's websocket connection.
type Notification struct {
	Type    string `json:"type"` // bid_accepted, bid_rejected, booking_cancelled
	LoadID  string `json:"load_id"`
	BidID   string `json:"bid_id,omitempty"`
	Message string `json:"message"`
}
