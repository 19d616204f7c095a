package model

import "time"

type BidStatus string

const (
	BidPending  BidStatus = "PENDING"
	BidAccepted BidStatus = "ACCEPTED"
	BidRejected BidStatus = "REJECTED"
)

// Bid is a transporter's offer to move part or all of a load at a proposed
// rate. Submitting a bid never touches capacity, offering is not allocation.
// At most one bid per load may ever be ACCEPTED. Seq is assigned by the store
// in submission order and breaks ranking-score ties.
type Bid struct {
	BidID         string    `json:"bid_id"`
	LoadID        string    `json:"load_id"`
	TransporterID string    `json:"transporter_id"`
	ProposedRate  float64   `json:"proposed_rate"`
	TrucksOffered int       `json:"trucks_offered"`
	Status        BidStatus `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Seq           int64     `json:"-"`
	Version       int64     `json:"version"`
}
