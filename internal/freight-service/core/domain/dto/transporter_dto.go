package dto

type TruckCapacityDto struct {
	TruckType string `json:"truck_type"`
	Count     int    `json:"count"`
}

type TransporterRequestDto struct {
	CompanyName     string             `json:"company_name"`
	Rating          float64            `json:"rating"`
	AvailableTrucks []TruckCapacityDto `json:"available_trucks"`
}

// FleetUpdateDto replaces a transporter's whole ledger with a new one.
type FleetUpdateDto struct {
	AvailableTrucks []TruckCapacityDto `json:"available_trucks"`
}
