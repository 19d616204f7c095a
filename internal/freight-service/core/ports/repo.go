package ports

import (
	"context"

	"freight-bid/internal/freight-service/core/domain/model"
)

// Store gathers the four storage collaborators. Save on every repo is
// conditional on the entity's version matching the stored one: a mismatch
// fails with myerrors.ErrConcurrencyConflict and on success the version is
// bumped by one, both in storage and on the passed entity.
//
// WithinTx runs fn against a transactional view. Every write staged by fn is
// committed as one unit, or none of them: any version mismatch aborts the
// whole unit with myerrors.ErrConcurrencyConflict. The guard never retries,
// callers must re-read fresh state and replay the operation themselves.
type Store interface {
	Loads() LoadRepo
	Bids() BidRepo
	Bookings() BookingRepo
	Transporters() TransporterRepo

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type LoadFilter struct {
	ShipperID string
	Status    model.LoadStatus
	Page      int
	Size      int
}

type LoadRepo interface {
	Create(ctx context.Context, l *model.Load) error
	Get(ctx context.Context, loadID string) (*model.Load, error)
	Save(ctx context.Context, l *model.Load) error
	List(ctx context.Context, f LoadFilter) ([]model.Load, error)
}

type BidFilter struct {
	LoadID        string
	TransporterID string
	Status        model.BidStatus
}

type BidRepo interface {
	Create(ctx context.Context, b *model.Bid) error
	Get(ctx context.Context, bidID string) (*model.Bid, error)
	Save(ctx context.Context, b *model.Bid) error
	// ListByLoad returns bids in submission order.
	ListByLoad(ctx context.Context, loadID string) ([]model.Bid, error)
	Filter(ctx context.Context, f BidFilter) ([]model.Bid, error)
}

type BookingRepo interface {
	Create(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, bookingID string) (*model.Booking, error)
	Save(ctx context.Context, b *model.Booking) error
	ListByLoad(ctx context.Context, loadID string) ([]model.Booking, error)
}

type TransporterRepo interface {
	// Create fails with myerrors.ErrAlreadyExists on a duplicate company name.
	Create(ctx context.Context, t *model.Transporter) error
	Get(ctx context.Context, transporterID string) (*model.Transporter, error)
	Save(ctx context.Context, t *model.Transporter) error
	List(ctx context.Context) ([]model.Transporter, error)
}
