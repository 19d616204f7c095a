package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/myerrors"
)

func TestRegisterTransporter(t *testing.T) {
	f := newFixture(t)

	tr, err := f.transporters.RegisterTransporter(context.Background(), dto.TransporterRequestDto{
		CompanyName: "Himalaya Movers",
		Rating:      4.2,
		AvailableTrucks: []dto.TruckCapacityDto{
			{TruckType: "FLATBED", Count: 3},
			{TruckType: "CONTAINER", Count: 2},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tr.TransporterID)
	require.Len(t, tr.AvailableTrucks, 2)

	got, err := f.transporters.GetTransporter(context.Background(), tr.TransporterID)
	require.NoError(t, err)
	assert.Equal(t, "Himalaya Movers", got.CompanyName)
}

func TestRegisterTransporterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  dto.TransporterRequestDto
	}{
		{"missing company", dto.TransporterRequestDto{Rating: 3.0}},
		{"rating too low", dto.TransporterRequestDto{CompanyName: "X", Rating: 0.5}},
		{"rating too high", dto.TransporterRequestDto{CompanyName: "X", Rating: 5.5}},
		{"empty truck type", dto.TransporterRequestDto{
			CompanyName:     "X",
			Rating:          3.0,
			AvailableTrucks: []dto.TruckCapacityDto{{Count: 1}},
		}},
		{"negative count", dto.TransporterRequestDto{
			CompanyName:     "X",
			Rating:          3.0,
			AvailableTrucks: []dto.TruckCapacityDto{{TruckType: "FLATBED", Count: -1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transporters.RegisterTransporter(context.Background(), tt.req)
			assert.ErrorIs(t, err, myerrors.ErrValidation)
		})
	}
}

func TestRegisterTransporterDuplicateCompany(t *testing.T) {
	f := newFixture(t)

	f.registerTransporter(t, "Unique Logistics", 4.0, 1)

	_, err := f.transporters.RegisterTransporter(context.Background(), dto.TransporterRequestDto{
		CompanyName: "unique logistics",
		Rating:      3.0,
	})
	assert.ErrorIs(t, err, myerrors.ErrAlreadyExists)
}

func TestListTransporters(t *testing.T) {
	f := newFixture(t)

	f.registerTransporter(t, "Beta Movers", 4.0, 1)
	f.registerTransporter(t, "Alpha Movers", 4.0, 1)

	all, err := f.transporters.ListTransporters(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha Movers", all[0].CompanyName)
	assert.Equal(t, "Beta Movers", all[1].CompanyName)
}

func TestReplaceFleet(t *testing.T) {
	f := newFixture(t)

	tr := f.registerTransporter(t, "Fleet Shuffle", 4.0, 3)

	updated, err := f.transporters.ReplaceFleet(context.Background(), tr.TransporterID, dto.FleetUpdateDto{
		AvailableTrucks: []dto.TruckCapacityDto{
			{TruckType: "TANKER", Count: 6},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.AvailableTrucks, 1)
	assert.Equal(t, "TANKER", updated.AvailableTrucks[0].TruckType)
	assert.Equal(t, 6, updated.AvailableTrucks[0].Count)

	_, err = f.transporters.ReplaceFleet(context.Background(), "no-such-transporter", dto.FleetUpdateDto{})
	assert.ErrorIs(t, err, myerrors.ErrNotFound)
}
