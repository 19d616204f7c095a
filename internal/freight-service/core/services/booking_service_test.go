package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
)

func TestCreateBookingFullAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 2)
	winner := f.registerTransporter(t, "Winning Freight", 4.5, 5)
	loser := f.registerTransporter(t, "Losing Freight", 3.5, 5)
	winningBid := f.submitBid(t, load.LoadID, winner.TransporterID, 1000, 2)
	losingBid := f.submitBid(t, load.LoadID, loser.TransporterID, 1200, 2)

	booking, err := f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           winningBid.BidID,
		AllocatedTrucks: 2,
		FinalRate:       950,
	})
	require.NoError(t, err)

	assert.Equal(t, model.BookingConfirmed, booking.Status)
	assert.Equal(t, load.LoadID, booking.LoadID)
	assert.Equal(t, "FLATBED", booking.TruckType)
	assert.Equal(t, 950.0, booking.FinalRate)

	gotLoad, err := f.loads.GetLoad(ctx, load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadBooked, gotLoad.Status)
	assert.Equal(t, 0, gotLoad.RemainingTrucks)

	gotWinner, err := f.transporters.GetTransporter(ctx, winner.TransporterID)
	require.NoError(t, err)
	assert.Equal(t, 3, gotWinner.AvailableTrucks[0].Count)

	gotWinning, err := f.bids.GetBid(ctx, winningBid.BidID)
	require.NoError(t, err)
	assert.Equal(t, model.BidAccepted, gotWinning.Status)

	gotLosing, err := f.bids.GetBid(ctx, losingBid.BidID)
	require.NoError(t, err)
	assert.Equal(t, model.BidRejected, gotLosing.Status)

	gotLoser, err := f.transporters.GetTransporter(ctx, loser.TransporterID)
	require.NoError(t, err)
	assert.Equal(t, 5, gotLoser.AvailableTrucks[0].Count, "rejected bidder keeps its capacity")
}

func TestCreateBookingPartialAllocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 5)
	tr := f.registerTransporter(t, "Partial Carrier", 4.0, 10)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1000, 5)

	_, err := f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 2,
		FinalRate:       1000,
	})
	require.NoError(t, err)

	gotLoad, err := f.loads.GetLoad(ctx, load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadOpenForBids, gotLoad.Status, "partially fulfilled load keeps accepting bids")
	assert.Equal(t, 3, gotLoad.RemainingTrucks)
}

func TestCreateBookingOverRemaining(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 2)
	tr := f.registerTransporter(t, "Eager Carrier", 4.0, 10)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1000, 2)

	_, err := f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 3,
		FinalRate:       1000,
	})
	assert.ErrorIs(t, err, myerrors.ErrInsufficientCapacity)

	// Nothing may have been persisted.
	gotLoad, err := f.loads.GetLoad(ctx, load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotLoad.RemainingTrucks)

	gotBid, err := f.bids.GetBid(ctx, bid.BidID)
	require.NoError(t, err)
	assert.Equal(t, model.BidPending, gotBid.Status)

	gotTr, err := f.transporters.GetTransporter(ctx, tr.TransporterID)
	require.NoError(t, err)
	assert.Equal(t, 10, gotTr.AvailableTrucks[0].Count)
}

func TestCreateBookingTransporterOutOfTrucks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 3)
	tr := f.registerTransporter(t, "Thin Fleet", 4.0, 2)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1000, 2)

	// Fleet shrank between bid and booking.
	_, err := f.transporters.ReplaceFleet(ctx, tr.TransporterID, dto.FleetUpdateDto{
		AvailableTrucks: []dto.TruckCapacityDto{{TruckType: "FLATBED", Count: 1}},
	})
	require.NoError(t, err)

	_, err = f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 2,
		FinalRate:       1000,
	})
	assert.ErrorIs(t, err, myerrors.ErrInsufficientCapacity)

	gotBid, err := f.bids.GetBid(ctx, bid.BidID)
	require.NoError(t, err)
	assert.Equal(t, model.BidPending, gotBid.Status, "failed booking leaves the bid untouched")
}

func TestCreateBookingNonPendingBid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 1)
	tr := f.registerTransporter(t, "Twice Shy", 4.0, 5)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1000, 1)

	_, err := f.bids.RejectBid(ctx, bid.BidID)
	require.NoError(t, err)

	_, err = f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 1,
		FinalRate:       1000,
	})
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  dto.BookingRequestDto
	}{
		{"missing bid", dto.BookingRequestDto{AllocatedTrucks: 1, FinalRate: 1}},
		{"zero trucks", dto.BookingRequestDto{BidID: "b", FinalRate: 1}},
		{"zero rate", dto.BookingRequestDto{BidID: "b", AllocatedTrucks: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.CreateBooking(context.Background(), tt.req)
			assert.ErrorIs(t, err, myerrors.ErrValidation)
		})
	}
}

func TestCancelBookingRestoresEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 2)
	tr := f.registerTransporter(t, "Round Trip Freight", 4.0, 5)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1000, 2)

	booking, err := f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 2,
		FinalRate:       1000,
	})
	require.NoError(t, err)

	cancelled, err := f.bookings.CancelBooking(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)

	gotLoad, err := f.loads.GetLoad(ctx, load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadOpenForBids, gotLoad.Status, "fully booked load reopens on reversal")
	assert.Equal(t, 2, gotLoad.RemainingTrucks)

	gotTr, err := f.transporters.GetTransporter(ctx, tr.TransporterID)
	require.NoError(t, err)
	assert.Equal(t, 5, gotTr.AvailableTrucks[0].Count, "ledger returns to its pre-booking state")

	// The accepted bid stays ACCEPTED; reversal does not resurrect the auction.
	gotBid, err := f.bids.GetBid(ctx, bid.BidID)
	require.NoError(t, err)
	assert.Equal(t, model.BidAccepted, gotBid.Status)

	_, err = f.bookings.CancelBooking(ctx, booking.BookingID)
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}

func TestCancelBookingUsesRecordedTruckType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 1)
	tr := f.registerTransporter(t, "Shifting Fleet", 4.0, 3)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1000, 1)

	booking, err := f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 1,
		FinalRate:       1000,
	})
	require.NoError(t, err)

	// The transporter re-shapes its fleet while the booking is live.
	_, err = f.transporters.ReplaceFleet(ctx, tr.TransporterID, dto.FleetUpdateDto{
		AvailableTrucks: []dto.TruckCapacityDto{
			{TruckType: "FLATBED", Count: 0},
			{TruckType: "CONTAINER", Count: 4},
		},
	})
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(ctx, booking.BookingID)
	require.NoError(t, err)

	gotTr, err := f.transporters.GetTransporter(ctx, tr.TransporterID)
	require.NoError(t, err)
	require.Len(t, gotTr.AvailableTrucks, 2)
	assert.Equal(t, 1, gotTr.AvailableTrucks[0].Count, "release credits the truck type recorded on the booking")
	assert.Equal(t, 4, gotTr.AvailableTrucks[1].Count)
}

func TestConcurrentBookingsOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	load := f.postLoad(t, 1)
	tr1 := f.registerTransporter(t, "Racer One", 4.0, 5)
	tr2 := f.registerTransporter(t, "Racer Two", 4.0, 5)
	bid1 := f.submitBid(t, load.LoadID, tr1.TransporterID, 1000, 1)
	bid2 := f.submitBid(t, load.LoadID, tr2.TransporterID, 990, 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, bidID := range []string{bid1.BidID, bid2.BidID} {
		wg.Add(1)
		go func(i int, bidID string) {
			defer wg.Done()
			_, errs[i] = f.bookings.CreateBooking(ctx, dto.BookingRequestDto{
				BidID:           bidID,
				AllocatedTrucks: 1,
				FinalRate:       1000,
			})
		}(i, bidID)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		lost++
		// The loser either collided mid-flight or arrived after its bid
		// had already been rejected by the winning booking.
		assert.True(t, errorIsAny(err,
			myerrors.ErrConcurrencyConflict,
			myerrors.ErrInvalidTransition,
			myerrors.ErrInsufficientCapacity),
			"unexpected loser error: %v", err)
	}
	assert.Equal(t, 1, won, "exactly one booking must win the last truck")
	assert.Equal(t, 1, lost)

	gotLoad, err := f.loads.GetLoad(ctx, load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadBooked, gotLoad.Status)
	assert.Equal(t, 0, gotLoad.RemainingTrucks)

	var reserved int
	for _, id := range []string{tr1.TransporterID, tr2.TransporterID} {
		gotTr, err := f.transporters.GetTransporter(ctx, id)
		require.NoError(t, err)
		require.GreaterOrEqual(t, gotTr.AvailableTrucks[0].Count, 0)
		reserved += 5 - gotTr.AvailableTrucks[0].Count
	}
	assert.Equal(t, 1, reserved, "exactly one truck may be reserved across both fleets")
}
