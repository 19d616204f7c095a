package memory

import (
	"context"
	"fmt"

	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"
)

// Live repos serve callers outside WithinTx. Reads lock briefly and return
// copies; writes run through a single-op transaction so version bookkeeping
// lives in one place.

type loadRepo struct{ s *Store }

func (r *loadRepo) Create(ctx context.Context, l *model.Load) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Loads().Create(ctx, l) })
}

func (r *loadRepo) Save(ctx context.Context, l *model.Load) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Loads().Save(ctx, l) })
}

func (r *loadRepo) Get(ctx context.Context, loadID string) (*model.Load, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loads[loadID]
	if !ok {
		return nil, fmt.Errorf("%w: load %s", myerrors.ErrNotFound, loadID)
	}
	return &l, nil
}

func (r *loadRepo) List(ctx context.Context, f ports.LoadFilter) ([]model.Load, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return listLoads(r.s.loads, f), nil
}

type bidRepo struct{ s *Store }

func (r *bidRepo) Create(ctx context.Context, b *model.Bid) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Bids().Create(ctx, b) })
}

func (r *bidRepo) Save(ctx context.Context, b *model.Bid) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Bids().Save(ctx, b) })
}

func (r *bidRepo) Get(ctx context.Context, bidID string) (*model.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bids[bidID]
	if !ok {
		return nil, fmt.Errorf("%w: bid %s", myerrors.ErrNotFound, bidID)
	}
	return &b, nil
}

func (r *bidRepo) ListByLoad(ctx context.Context, loadID string) ([]model.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return filterBids(r.s.bids, ports.BidFilter{LoadID: loadID}), nil
}

func (r *bidRepo) Filter(ctx context.Context, f ports.BidFilter) ([]model.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return filterBids(r.s.bids, f), nil
}

type bookingRepo struct{ s *Store }

func (r *bookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Bookings().Create(ctx, b) })
}

func (r *bookingRepo) Save(ctx context.Context, b *model.Booking) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Bookings().Save(ctx, b) })
}

func (r *bookingRepo) Get(ctx context.Context, bookingID string) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", myerrors.ErrNotFound, bookingID)
	}
	return &b, nil
}

func (r *bookingRepo) ListByLoad(ctx context.Context, loadID string) ([]model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return listBookings(r.s.bookings, loadID), nil
}

type transporterRepo struct{ s *Store }

func (r *transporterRepo) Create(ctx context.Context, t *model.Transporter) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Transporters().Create(ctx, t) })
}

func (r *transporterRepo) Save(ctx context.Context, t *model.Transporter) error {
	return r.s.WithinTx(ctx, func(tx ports.Store) error { return tx.Transporters().Save(ctx, t) })
}

func (r *transporterRepo) Get(ctx context.Context, transporterID string) (*model.Transporter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transporters[transporterID]
	if !ok {
		return nil, fmt.Errorf("%w: transporter %s", myerrors.ErrNotFound, transporterID)
	}
	out := cloneTransporter(t)
	return &out, nil
}

func (r *transporterRepo) List(ctx context.Context) ([]model.Transporter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return listTransporters(r.s.transporters), nil
}
