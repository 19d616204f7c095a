package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-bid/internal/freight-service/core/myerrors"
)

func TestCapacityLedger(t *testing.T) {
	tr := Transporter{
		CompanyName: "Acme Hauling",
		AvailableTrucks: []TruckCapacity{
			{TruckType: "FLATBED", Count: 3},
			{TruckType: "CONTAINER", Count: 0},
		},
	}

	assert.True(t, tr.HasCapacity("FLATBED", 3))
	assert.True(t, tr.HasCapacity("flatbed", 1), "truck types match case-insensitively")
	assert.False(t, tr.HasCapacity("FLATBED", 4))
	assert.False(t, tr.HasCapacity("CONTAINER", 1))
	assert.False(t, tr.HasCapacity("TANKER", 1))

	require.NoError(t, tr.Reserve("FLATBED", 2))
	assert.Equal(t, 1, tr.Capacity("FLATBED").Count)

	err := tr.Reserve("FLATBED", 2)
	assert.ErrorIs(t, err, myerrors.ErrInsufficientCapacity)
	assert.Equal(t, 1, tr.Capacity("FLATBED").Count, "failed reserve leaves the ledger alone")

	err = tr.Reserve("TANKER", 1)
	assert.ErrorIs(t, err, myerrors.ErrInsufficientCapacity)

	tr.Release("flatbed", 2)
	assert.Equal(t, 3, tr.Capacity("FLATBED").Count)
}
