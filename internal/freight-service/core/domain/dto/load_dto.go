package dto

import "time"

type LoadRequestDto struct {
	ShipperID     string    `json:"shipper_id"`
	LoadingCity   string    `json:"loading_city"`
	UnloadingCity string    `json:"unloading_city"`
	LoadingDate   time.Time `json:"loading_date"`
	ProductType   string    `json:"product_type"`
	Weight        float64   `json:"weight"`
	WeightUnit    string    `json:"weight_unit"`
	TruckType     string    `json:"truck_type"`
	NoOfTrucks    int       `json:"no_of_trucks"`
}

// LoadUpdateDto patches load details. Nil fields are left untouched.
// Changing NoOfTrucks resets RemainingTrucks to the new value.
type LoadUpdateDto struct {
	LoadingCity   *string    `json:"loading_city"`
	UnloadingCity *string    `json:"unloading_city"`
	LoadingDate   *time.Time `json:"loading_date"`
	ProductType   *string    `json:"product_type"`
	Weight        *float64   `json:"weight"`
	WeightUnit    *string    `json:"weight_unit"`
	TruckType     *string    `json:"truck_type"`
	NoOfTrucks    *int       `json:"no_of_trucks"`
}

type LoadListQueryDto struct {
	ShipperID string
	Status    string
	Page      int
	Size      int
}
