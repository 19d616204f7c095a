package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
)

func TestSubmitBidOpensBidding(t *testing.T) {
	f := newFixture(t)

	load := f.postLoad(t, 2)
	tr := f.registerTransporter(t, "Western Haulage", 4.0, 5)

	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 1200, 2)
	assert.Equal(t, model.BidPending, bid.Status)
	assert.False(t, bid.SubmittedAt.IsZero())

	got, err := f.loads.GetLoad(context.Background(), load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadOpenForBids, got.Status)

	// A second bid finds the load already open.
	other := f.registerTransporter(t, "Central Carriers", 3.0, 5)
	f.submitBid(t, load.LoadID, other.TransporterID, 1100, 1)

	got, err = f.loads.GetLoad(context.Background(), load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadOpenForBids, got.Status)
}

func TestSubmitBidDoesNotTouchCapacity(t *testing.T) {
	f := newFixture(t)

	load := f.postLoad(t, 2)
	tr := f.registerTransporter(t, "Western Haulage", 4.0, 5)

	f.submitBid(t, load.LoadID, tr.TransporterID, 1200, 3)

	got, err := f.transporters.GetTransporter(context.Background(), tr.TransporterID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableTrucks[0].Count, "bidding must not reserve trucks")
}

func TestSubmitBidInsufficientCapacity(t *testing.T) {
	f := newFixture(t)

	load := f.postLoad(t, 2)
	tr := f.registerTransporter(t, "Small Fleet Co", 4.0, 1)

	_, err := f.bids.SubmitBid(context.Background(), dto.BidRequestDto{
		LoadID:        load.LoadID,
		TransporterID: tr.TransporterID,
		ProposedRate:  1000,
		TrucksOffered: 2,
	})
	assert.ErrorIs(t, err, myerrors.ErrInsufficientCapacity)

	// The admission failure must not leave the load half-transitioned.
	got, err := f.loads.GetLoad(context.Background(), load.LoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadPosted, got.Status)
}

func TestSubmitBidClosedLoad(t *testing.T) {
	f := newFixture(t)

	tr := f.registerTransporter(t, "Anywhere Logistics", 4.0, 10)

	cancelled := f.postLoad(t, 1)
	_, err := f.loads.CancelLoad(context.Background(), cancelled.LoadID)
	require.NoError(t, err)

	_, err = f.bids.SubmitBid(context.Background(), dto.BidRequestDto{
		LoadID:        cancelled.LoadID,
		TransporterID: tr.TransporterID,
		ProposedRate:  1000,
		TrucksOffered: 1,
	})
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)

	booked := f.postLoad(t, 1)
	bid := f.submitBid(t, booked.LoadID, tr.TransporterID, 900, 1)
	_, err = f.bookings.CreateBooking(context.Background(), dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 1,
		FinalRate:       900,
	})
	require.NoError(t, err)

	_, err = f.bids.SubmitBid(context.Background(), dto.BidRequestDto{
		LoadID:        booked.LoadID,
		TransporterID: tr.TransporterID,
		ProposedRate:  800,
		TrucksOffered: 1,
	})
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}

func TestSubmitBidValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  dto.BidRequestDto
	}{
		{"missing load", dto.BidRequestDto{TransporterID: "t", ProposedRate: 1, TrucksOffered: 1}},
		{"missing transporter", dto.BidRequestDto{LoadID: "l", ProposedRate: 1, TrucksOffered: 1}},
		{"zero rate", dto.BidRequestDto{LoadID: "l", TransporterID: "t", TrucksOffered: 1}},
		{"zero trucks", dto.BidRequestDto{LoadID: "l", TransporterID: "t", ProposedRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bids.SubmitBid(context.Background(), tt.req)
			assert.ErrorIs(t, err, myerrors.ErrValidation)
		})
	}
}

func TestFilterBids(t *testing.T) {
	f := newFixture(t)

	load1 := f.postLoad(t, 2)
	load2 := f.postLoad(t, 2)
	tr1 := f.registerTransporter(t, "First Mover", 4.0, 5)
	tr2 := f.registerTransporter(t, "Second Mover", 4.0, 5)

	f.submitBid(t, load1.LoadID, tr1.TransporterID, 1000, 1)
	f.submitBid(t, load1.LoadID, tr2.TransporterID, 1100, 1)
	rejected := f.submitBid(t, load2.LoadID, tr1.TransporterID, 900, 1)
	_, err := f.bids.RejectBid(context.Background(), rejected.BidID)
	require.NoError(t, err)

	byLoad, err := f.bids.FilterBids(context.Background(), dto.BidFilterDto{LoadID: load1.LoadID})
	require.NoError(t, err)
	assert.Len(t, byLoad, 2)

	byTransporter, err := f.bids.FilterBids(context.Background(), dto.BidFilterDto{TransporterID: tr1.TransporterID})
	require.NoError(t, err)
	assert.Len(t, byTransporter, 2)

	pendingOnly, err := f.bids.FilterBids(context.Background(), dto.BidFilterDto{
		TransporterID: tr1.TransporterID,
		Status:        "PENDING",
	})
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	assert.Equal(t, load1.LoadID, pendingOnly[0].LoadID)
}

func TestRejectBidPendingOnly(t *testing.T) {
	f := newFixture(t)

	load := f.postLoad(t, 1)
	tr := f.registerTransporter(t, "Reliable Transport", 4.5, 3)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 700, 1)

	got, err := f.bids.RejectBid(context.Background(), bid.BidID)
	require.NoError(t, err)
	assert.Equal(t, model.BidRejected, got.Status)

	_, err = f.bids.RejectBid(context.Background(), bid.BidID)
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}

func TestRejectAcceptedBid(t *testing.T) {
	f := newFixture(t)

	load := f.postLoad(t, 1)
	tr := f.registerTransporter(t, "Winning Carrier", 4.5, 3)
	bid := f.submitBid(t, load.LoadID, tr.TransporterID, 700, 1)

	_, err := f.bookings.CreateBooking(context.Background(), dto.BookingRequestDto{
		BidID:           bid.BidID,
		AllocatedTrucks: 1,
		FinalRate:       700,
	})
	require.NoError(t, err)

	_, err = f.bids.RejectBid(context.Background(), bid.BidID)
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}
