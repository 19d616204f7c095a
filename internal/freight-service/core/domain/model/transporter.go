package model

import (
	"fmt"
	"strings"

	"freight-bid/internal/freight-service/core/myerrors"
)

// TruckCapacity is one entry of a transporter's capacity ledger: the available
// count of trucks of a single type. Counts never go below zero.
type TruckCapacity struct {
	TruckType string `json:"truck_type"`
	Count     int    `json:"count"`
}

// Transporter owns its capacity ledger exclusively. Counts are only ever
// changed through Reserve and Release, which the booking transaction and its
// reversal call inside an atomic unit. Version is the optimistic-concurrency
// token guarding those changes.
type Transporter struct {
	TransporterID   string          `json:"transporter_id"`
	CompanyName     string          `json:"company_name"`
	Rating          float64         `json:"rating"`
	AvailableTrucks []TruckCapacity `json:"available_trucks"`
	Version         int64           `json:"version"`
}

// Capacity returns the ledger entry matching truckType, case-insensitively.
func (t *Transporter) Capacity(truckType string) *TruckCapacity {
	for i := range t.AvailableTrucks {
		if strings.EqualFold(t.AvailableTrucks[i].TruckType, truckType) {
			return &t.AvailableTrucks[i]
		}
	}
	return nil
}

// HasCapacity reports whether at least n trucks of truckType are available.
func (t *Transporter) HasCapacity(truckType string, n int) bool {
	entry := t.Capacity(truckType)
	return entry != nil && entry.Count >= n
}

// Reserve deducts n trucks of truckType from the ledger.
func (t *Transporter) Reserve(truckType string, n int) error {
	entry := t.Capacity(truckType)
	if entry == nil {
		return fmt.Errorf("%w: transporter %s has no trucks of type %q",
			myerrors.ErrInsufficientCapacity, t.CompanyName, truckType)
	}
	if entry.Count < n {
		return fmt.Errorf("%w: transporter %s has %d trucks of type %q, %d requested",
			myerrors.ErrInsufficientCapacity, t.CompanyName, entry.Count, truckType, n)
	}
	entry.Count -= n
	return nil
}

// Release returns n trucks of truckType to the ledger. The entry must exist,
// it was debited when the booking was confirmed.
func (t *Transporter) Release(truckType string, n int) {
	if entry := t.Capacity(truckType); entry != nil {
		entry.Count += n
	}
}
