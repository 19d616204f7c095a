package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"
)

// txStore is the transactional view handed to WithinTx callbacks. Reads see
// the snapshot plus the tx's own staged writes; nothing is visible to other
// callers until commit.
type txStore struct {
	base         *Store
	loads        map[string]model.Load
	bids         map[string]model.Bid
	bookings     map[string]model.Booking
	transporters map[string]model.Transporter
	baseVersions map[string]int64
	dirty        map[string]bool
	created      map[string]bool
	// createdBids keeps the caller's pointers so commit can write the
	// final live sequence numbers back.
	createdBids map[string]*model.Bid
	bidSeq      int64
}

func (t *txStore) Loads() ports.LoadRepo               { return &txLoadRepo{t} }
func (t *txStore) Bids() ports.BidRepo                 { return &txBidRepo{t} }
func (t *txStore) Bookings() ports.BookingRepo         { return &txBookingRepo{t} }
func (t *txStore) Transporters() ports.TransporterRepo { return &txTransporterRepo{t} }

// Nested units join the enclosing one.
func (t *txStore) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	return fn(t)
}

type txLoadRepo struct{ t *txStore }

func (r *txLoadRepo) Create(ctx context.Context, l *model.Load) error {
	l.Version = 0
	r.t.loads[l.LoadID] = *l
	r.t.dirty["load:"+l.LoadID] = true
	r.t.created["load:"+l.LoadID] = true
	return nil
}

func (r *txLoadRepo) Get(ctx context.Context, loadID string) (*model.Load, error) {
	l, ok := r.t.loads[loadID]
	if !ok {
		return nil, fmt.Errorf("%w: load %s", myerrors.ErrNotFound, loadID)
	}
	return &l, nil
}

func (r *txLoadRepo) Save(ctx context.Context, l *model.Load) error {
	cur, ok := r.t.loads[l.LoadID]
	if !ok {
		return fmt.Errorf("%w: load %s", myerrors.ErrNotFound, l.LoadID)
	}
	if cur.Version != l.Version {
		return fmt.Errorf("%w: load %s", myerrors.ErrConcurrencyConflict, l.LoadID)
	}
	l.Version++
	r.t.loads[l.LoadID] = *l
	r.t.dirty["load:"+l.LoadID] = true
	return nil
}

func (r *txLoadRepo) List(ctx context.Context, f ports.LoadFilter) ([]model.Load, error) {
	return listLoads(r.t.loads, f), nil
}

type txBidRepo struct{ t *txStore }

func (r *txBidRepo) Create(ctx context.Context, b *model.Bid) error {
	b.Version = 0
	r.t.bidSeq++
	b.Seq = r.t.bidSeq
	r.t.bids[b.BidID] = *b
	r.t.dirty["bid:"+b.BidID] = true
	r.t.created["bid:"+b.BidID] = true
	r.t.createdBids[b.BidID] = b
	return nil
}

func (r *txBidRepo) Get(ctx context.Context, bidID string) (*model.Bid, error) {
	b, ok := r.t.bids[bidID]
	if !ok {
		return nil, fmt.Errorf("%w: bid %s", myerrors.ErrNotFound, bidID)
	}
	return &b, nil
}

func (r *txBidRepo) Save(ctx context.Context, b *model.Bid) error {
	cur, ok := r.t.bids[b.BidID]
	if !ok {
		return fmt.Errorf("%w: bid %s", myerrors.ErrNotFound, b.BidID)
	}
	if cur.Version != b.Version {
		return fmt.Errorf("%w: bid %s", myerrors.ErrConcurrencyConflict, b.BidID)
	}
	b.Version++
	r.t.bids[b.BidID] = *b
	r.t.dirty["bid:"+b.BidID] = true
	return nil
}

func (r *txBidRepo) ListByLoad(ctx context.Context, loadID string) ([]model.Bid, error) {
	return filterBids(r.t.bids, ports.BidFilter{LoadID: loadID}), nil
}

func (r *txBidRepo) Filter(ctx context.Context, f ports.BidFilter) ([]model.Bid, error) {
	return filterBids(r.t.bids, f), nil
}

type txBookingRepo struct{ t *txStore }

func (r *txBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.Version = 0
	r.t.bookings[b.BookingID] = *b
	r.t.dirty["booking:"+b.BookingID] = true
	r.t.created["booking:"+b.BookingID] = true
	return nil
}

func (r *txBookingRepo) Get(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, ok := r.t.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", myerrors.ErrNotFound, bookingID)
	}
	return &b, nil
}

func (r *txBookingRepo) Save(ctx context.Context, b *model.Booking) error {
	cur, ok := r.t.bookings[b.BookingID]
	if !ok {
		return fmt.Errorf("%w: booking %s", myerrors.ErrNotFound, b.BookingID)
	}
	if cur.Version != b.Version {
		return fmt.Errorf("%w: booking %s", myerrors.ErrConcurrencyConflict, b.BookingID)
	}
	b.Version++
	r.t.bookings[b.BookingID] = *b
	r.t.dirty["booking:"+b.BookingID] = true
	return nil
}

func (r *txBookingRepo) ListByLoad(ctx context.Context, loadID string) ([]model.Booking, error) {
	return listBookings(r.t.bookings, loadID), nil
}

type txTransporterRepo struct{ t *txStore }

func (r *txTransporterRepo) Create(ctx context.Context, tr *model.Transporter) error {
	for _, existing := range r.t.transporters {
		if strings.EqualFold(existing.CompanyName, tr.CompanyName) {
			return fmt.Errorf("%w: company %q", myerrors.ErrAlreadyExists, tr.CompanyName)
		}
	}
	tr.Version = 0
	r.t.transporters[tr.TransporterID] = cloneTransporter(*tr)
	r.t.dirty["transporter:"+tr.TransporterID] = true
	r.t.created["transporter:"+tr.TransporterID] = true
	return nil
}

func (r *txTransporterRepo) Get(ctx context.Context, transporterID string) (*model.Transporter, error) {
	tr, ok := r.t.transporters[transporterID]
	if !ok {
		return nil, fmt.Errorf("%w: transporter %s", myerrors.ErrNotFound, transporterID)
	}
	out := cloneTransporter(tr)
	return &out, nil
}

func (r *txTransporterRepo) Save(ctx context.Context, tr *model.Transporter) error {
	cur, ok := r.t.transporters[tr.TransporterID]
	if !ok {
		return fmt.Errorf("%w: transporter %s", myerrors.ErrNotFound, tr.TransporterID)
	}
	if cur.Version != tr.Version {
		return fmt.Errorf("%w: transporter %s", myerrors.ErrConcurrencyConflict, tr.TransporterID)
	}
	tr.Version++
	r.t.transporters[tr.TransporterID] = cloneTransporter(*tr)
	r.t.dirty["transporter:"+tr.TransporterID] = true
	return nil
}

func (r *txTransporterRepo) List(ctx context.Context) ([]model.Transporter, error) {
	return listTransporters(r.t.transporters), nil
}

// Shared filter helpers for live and transactional views.

func listLoads(loads map[string]model.Load, f ports.LoadFilter) []model.Load {
	out := make([]model.Load, 0)
	for _, l := range loads {
		if f.ShipperID != "" && l.ShipperID != f.ShipperID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DatePosted.Equal(out[j].DatePosted) {
			return out[i].LoadID < out[j].LoadID
		}
		return out[i].DatePosted.Before(out[j].DatePosted)
	})

	if f.Size <= 0 {
		return out
	}
	start := f.Page * f.Size
	if start >= len(out) {
		return []model.Load{}
	}
	end := start + f.Size
	if end > len(out) {
		end = len(out)
	}
	return out[start:end]
}

func filterBids(bids map[string]model.Bid, f ports.BidFilter) []model.Bid {
	out := make([]model.Bid, 0)
	for _, b := range bids {
		if f.LoadID != "" && b.LoadID != f.LoadID {
			continue
		}
		if f.TransporterID != "" && b.TransporterID != f.TransporterID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func listBookings(bookings map[string]model.Booking, loadID string) []model.Booking {
	out := make([]model.Booking, 0)
	for _, b := range bookings {
		if b.LoadID != loadID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out
}

func listTransporters(transporters map[string]model.Transporter) []model.Transporter {
	out := make([]model.Transporter, 0, len(transporters))
	for _, t := range transporters {
		out = append(out, cloneTransporter(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	return out
}
