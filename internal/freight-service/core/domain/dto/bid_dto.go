package dto

type BidRequestDto struct {
	LoadID        string  `json:"load_id"`
	TransporterID string  `json:"transporter_id"`
	ProposedRate  float64 `json:"proposed_rate"`
	TrucksOffered int     `json:"trucks_offered"`
}

type BidFilterDto struct {
	LoadID        string
	TransporterID string
	Status        string
}

// BestBidDto is one row of the ranking for a load's pending bids.
// Score favours lower rates and higher transporter ratings.
type BestBidDto struct {
	BidID             string  `json:"bid_id"`
	TransporterID     string  `json:"transporter_id"`
	ProposedRate      float64 `json:"proposed_rate"`
	TransporterRating float64 `json:"transporter_rating"`
	Score             float64 `json:"score"`
}
