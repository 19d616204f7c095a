package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"freight-bid/internal/freight-service/adapters/driven/memory"
	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"
)

type fixture struct {
	store        *memory.Store
	loads        ports.ILoadService
	bids         ports.IBidService
	bookings     ports.IBookingService
	transporters ports.ITransporterService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)

	store := memory.New()
	return &fixture{
		store:        store,
		loads:        NewLoadService(log, store, nil, nil),
		bids:         NewBidService(log, store, nil, nil),
		bookings:     NewBookingService(log, store, nil, nil),
		transporters: NewTransporterService(log, store),
	}
}

func (f *fixture) postLoad(t *testing.T, trucks int) *model.Load {
	t.Helper()

	load, err := f.loads.CreateLoad(context.Background(), dto.LoadRequestDto{
		ShipperID:     "shipper-1",
		LoadingCity:   "Mumbai",
		UnloadingCity: "Delhi",
		LoadingDate:   time.Now().Add(48 * time.Hour),
		ProductType:   "steel coils",
		Weight:        24.5,
		WeightUnit:    "ton",
		TruckType:     "FLATBED",
		NoOfTrucks:    trucks,
	})
	require.NoError(t, err)
	return load
}

func (f *fixture) registerTransporter(t *testing.T, company string, rating float64, flatbeds int) *model.Transporter {
	t.Helper()

	tr, err := f.transporters.RegisterTransporter(context.Background(), dto.TransporterRequestDto{
		CompanyName: company,
		Rating:      rating,
		AvailableTrucks: []dto.TruckCapacityDto{
			{TruckType: "FLATBED", Count: flatbeds},
		},
	})
	require.NoError(t, err)
	return tr
}

func (f *fixture) submitBid(t *testing.T, loadID, transporterID string, rate float64, offered int) *model.Bid {
	t.Helper()

	bid, err := f.bids.SubmitBid(context.Background(), dto.BidRequestDto{
		LoadID:        loadID,
		TransporterID: transporterID,
		ProposedRate:  rate,
		TrucksOffered: offered,
	})
	require.NoError(t, err)
	return bid
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
