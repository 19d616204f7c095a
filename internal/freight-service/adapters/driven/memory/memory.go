// Package memory implements ports.Store on plain maps with the same
// optimistic-concurrency contract the postgres adapter provides. It backs the
// service tests and local runs without a database.
//
// WithinTx takes a deep snapshot of the store, lets fn read and stage writes
// against that snapshot without holding the lock, then commits: every staged
// write is validated against the live version observed at snapshot time and a
// single mismatch discards the whole unit with ErrConcurrencyConflict.
package memory

import (
	"context"
	"strings"
	"sync"

	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"
)

type Store struct {
	mu           sync.Mutex
	loads        map[string]model.Load
	bids         map[string]model.Bid
	bookings     map[string]model.Booking
	transporters map[string]model.Transporter
	bidSeq       int64
}

func New() *Store {
	return &Store{
		loads:        make(map[string]model.Load),
		bids:         make(map[string]model.Bid),
		bookings:     make(map[string]model.Booking),
		transporters: make(map[string]model.Transporter),
	}
}

func (s *Store) Loads() ports.LoadRepo               { return &loadRepo{s: s} }
func (s *Store) Bids() ports.BidRepo                 { return &bidRepo{s: s} }
func (s *Store) Bookings() ports.BookingRepo         { return &bookingRepo{s: s} }
func (s *Store) Transporters() ports.TransporterRepo { return &transporterRepo{s: s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.begin()
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(tx)
}

// begin deep-copies the current state and records the version every entity had
// at snapshot time.
func (s *Store) begin() *txStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStore{
		base:         s,
		loads:        make(map[string]model.Load, len(s.loads)),
		bids:         make(map[string]model.Bid, len(s.bids)),
		bookings:     make(map[string]model.Booking, len(s.bookings)),
		transporters: make(map[string]model.Transporter, len(s.transporters)),
		baseVersions: make(map[string]int64),
		dirty:        make(map[string]bool),
		created:      make(map[string]bool),
		createdBids:  make(map[string]*model.Bid),
		bidSeq:       s.bidSeq,
	}
	for id, l := range s.loads {
		tx.loads[id] = l
		tx.baseVersions["load:"+id] = l.Version
	}
	for id, b := range s.bids {
		tx.bids[id] = b
		tx.baseVersions["bid:"+id] = b.Version
	}
	for id, b := range s.bookings {
		tx.bookings[id] = b
		tx.baseVersions["booking:"+id] = b.Version
	}
	for id, t := range s.transporters {
		tx.transporters[id] = cloneTransporter(t)
		tx.baseVersions["transporter:"+id] = t.Version
	}
	return tx
}

// commit validates the write set against live versions and applies all staged
// writes, or none of them.
func (s *Store) commit(tx *txStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range tx.dirty {
		if tx.created[key] {
			continue
		}
		kind, id, _ := strings.Cut(key, ":")
		var live int64
		var ok bool
		switch kind {
		case "load":
			var l model.Load
			l, ok = s.loads[id]
			live = l.Version
		case "bid":
			var b model.Bid
			b, ok = s.bids[id]
			live = b.Version
		case "booking":
			var b model.Booking
			b, ok = s.bookings[id]
			live = b.Version
		case "transporter":
			var t model.Transporter
			t, ok = s.transporters[id]
			live = t.Version
		}
		if !ok || live != tx.baseVersions[key] {
			return myerrors.ErrConcurrencyConflict
		}
	}

	// Unique company name may have been taken by a concurrent registration.
	for key := range tx.created {
		kind, id, _ := strings.Cut(key, ":")
		if kind != "transporter" {
			continue
		}
		name := tx.transporters[id].CompanyName
		for liveID, live := range s.transporters {
			if liveID != id && strings.EqualFold(live.CompanyName, name) {
				return myerrors.ErrAlreadyExists
			}
		}
	}

	for key := range tx.dirty {
		kind, id, _ := strings.Cut(key, ":")
		switch kind {
		case "load":
			s.loads[id] = tx.loads[id]
		case "bid":
			b := tx.bids[id]
			if tx.created[key] {
				s.bidSeq++
				b.Seq = s.bidSeq
				if staged := tx.createdBids[id]; staged != nil {
					staged.Seq = b.Seq
				}
			}
			s.bids[id] = b
		case "booking":
			s.bookings[id] = tx.bookings[id]
		case "transporter":
			s.transporters[id] = cloneTransporter(tx.transporters[id])
		}
	}
	return nil
}

func cloneTransporter(t model.Transporter) model.Transporter {
	out := t
	out.AvailableTrucks = make([]model.TruckCapacity, len(t.AvailableTrucks))
	copy(out.AvailableTrucks, t.AvailableTrucks)
	return out
}
