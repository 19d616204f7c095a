package dto

type BookingRequestDto struct {
	BidID           string  `json:"bid_id"`
	AllocatedTrucks int     `json:"allocated_trucks"`
	FinalRate       float64 `json:"final_rate"`
}
