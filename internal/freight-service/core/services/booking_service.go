package services

import (
	"context"
	"fmt"
	"time"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/eventdto"
	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"

	"github.com/google/uuid"
)

type BookingService struct {
	mylog    mylogger.Logger
	store    ports.Store
	broker   ports.IFreightBroker
	notifier ports.INotifyTransporter
}

func NewBookingService(log mylogger.Logger, store ports.Store, broker ports.IFreightBroker, notifier ports.INotifyTransporter) ports.IBookingService {
	return &BookingService{
		mylog:    log,
		store:    store,
		broker:   broker,
		notifier: notifier,
	}
}

// CreateBooking accepts a bid and consumes transporter capacity, all as one
// atomic unit: deduct the ledger, mark the bid ACCEPTED, reject every other
// pending bid on the load, create the CONFIRMED booking and shrink the load's
// remaining-truck counter. If any aggregate changed underneath us the whole
// unit aborts with ErrConcurrencyConflict and nothing is persisted; the caller
// re-reads and retries.
func (s *BookingService) CreateBooking(ctx context.Context, req dto.BookingRequestDto) (*model.Booking, error) {
	log := s.mylog.Action("CreateBooking")

	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	var (
		booking  *model.Booking
		rejected []model.Bid
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		rejected = rejected[:0]

		bid, err := tx.Bids().Get(ctx, req.BidID)
		if err != nil {
			return err
		}
		if bid.Status != model.BidPending {
			return fmt.Errorf("%w: bid %s is %s, only PENDING bids can be accepted",
				myerrors.ErrInvalidTransition, bid.BidID, bid.Status)
		}

		load, err := tx.Loads().Get(ctx, bid.LoadID)
		if err != nil {
			return err
		}
		if load.Status == model.LoadCancelled {
			return fmt.Errorf("%w: cannot book CANCELLED load %s", myerrors.ErrInvalidTransition, load.LoadID)
		}

		transporter, err := tx.Transporters().Get(ctx, bid.TransporterID)
		if err != nil {
			return err
		}

		// remainingTrucks may never go negative.
		if req.AllocatedTrucks > load.RemainingTrucks {
			return fmt.Errorf("%w: load %s needs only %d more trucks, %d requested",
				myerrors.ErrInsufficientCapacity, load.LoadID, load.RemainingTrucks, req.AllocatedTrucks)
		}

		if err := transporter.Reserve(load.TruckType, req.AllocatedTrucks); err != nil {
			return err
		}
		if err := tx.Transporters().Save(ctx, transporter); err != nil {
			return err
		}

		bid.Status = model.BidAccepted
		if err := tx.Bids().Save(ctx, bid); err != nil {
			return err
		}

		// Accepting one bid forecloses all other pending offers on the load.
		others, err := tx.Bids().ListByLoad(ctx, load.LoadID)
		if err != nil {
			return err
		}
		for i := range others {
			if others[i].BidID == bid.BidID || others[i].Status != model.BidPending {
				continue
			}
			others[i].Status = model.BidRejected
			if err := tx.Bids().Save(ctx, &others[i]); err != nil {
				return err
			}
			rejected = append(rejected, others[i])
		}

		booking = &model.Booking{
			BookingID:       uuid.NewString(),
			LoadID:          load.LoadID,
			BidID:           bid.BidID,
			TransporterID:   bid.TransporterID,
			AllocatedTrucks: req.AllocatedTrucks,
			FinalRate:       req.FinalRate,
			TruckType:       load.TruckType,
			Status:          model.BookingConfirmed,
			BookedAt:        time.Now().UTC(),
		}
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		load.RemainingTrucks -= req.AllocatedTrucks
		if load.RemainingTrucks == 0 {
			load.Status = model.LoadBooked
		}
		return tx.Loads().Save(ctx, load)
	})
	if err != nil {
		log.Warn("booking not created", "bid_id", req.BidID, "reason", err.Error())
		return nil, err
	}

	s.notify(booking.TransporterID, eventdto.Notification{
		Type:    "bid_accepted",
		LoadID:  booking.LoadID,
		BidID:   booking.BidID,
		Message: fmt.Sprintf("bid accepted, %d trucks booked", booking.AllocatedTrucks),
	})
	for i := range rejected {
		s.notify(rejected[i].TransporterID, eventdto.Notification{
			Type:    "bid_rejected",
			LoadID:  rejected[i].LoadID,
			BidID:   rejected[i].BidID,
			Message: "another bid was accepted for this load",
		})
	}
	s.publishBookingEvent(eventdto.BookingEvent{
		Action:          "created",
		BookingID:       booking.BookingID,
		LoadID:          booking.LoadID,
		BidID:           booking.BidID,
		TransporterID:   booking.TransporterID,
		TruckType:       booking.TruckType,
		AllocatedTrucks: booking.AllocatedTrucks,
		FinalRate:       booking.FinalRate,
		OccurredAt:      booking.BookedAt,
	})

	log.Info("booking confirmed", "booking_id", booking.BookingID,
		"load_id", booking.LoadID, "allocated_trucks", booking.AllocatedTrucks)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	return s.store.Bookings().Get(ctx, bookingID)
}

func (s *BookingService) ListBookingsByLoad(ctx context.Context, loadID string) ([]model.Booking, error) {
	return s.store.Bookings().ListByLoad(ctx, loadID)
}

// CancelBooking is the inverse of CreateBooking: restore the transporter's
// ledger, give the load its trucks back and reopen it for bids if it was fully
// BOOKED. Bids rejected when the booking was made stay REJECTED.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	log := s.mylog.Action("CancelBooking")

	var booking *model.Booking
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		booking, err = tx.Bookings().Get(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status == model.BookingCancelled {
			return fmt.Errorf("%w: booking %s is already cancelled", myerrors.ErrInvalidTransition, bookingID)
		}

		booking.Status = model.BookingCancelled
		if err := tx.Bookings().Save(ctx, booking); err != nil {
			return err
		}

		transporter, err := tx.Transporters().Get(ctx, booking.TransporterID)
		if err != nil {
			return err
		}
		transporter.Release(booking.TruckType, booking.AllocatedTrucks)
		if err := tx.Transporters().Save(ctx, transporter); err != nil {
			return err
		}

		load, err := tx.Loads().Get(ctx, booking.LoadID)
		if err != nil {
			return err
		}
		load.RemainingTrucks += booking.AllocatedTrucks
		if load.Status == model.LoadBooked {
			load.Status = model.LoadOpenForBids
		}
		return tx.Loads().Save(ctx, load)
	})
	if err != nil {
		log.Warn("booking not cancelled", "booking_id", bookingID, "reason", err.Error())
		return nil, err
	}

	s.notify(booking.TransporterID, eventdto.Notification{
		Type:    "booking_cancelled",
		LoadID:  booking.LoadID,
		BidID:   booking.BidID,
		Message: fmt.Sprintf("booking cancelled, %d trucks returned", booking.AllocatedTrucks),
	})
	s.publishBookingEvent(eventdto.BookingEvent{
		Action:          "cancelled",
		BookingID:       booking.BookingID,
		LoadID:          booking.LoadID,
		BidID:           booking.BidID,
		TransporterID:   booking.TransporterID,
		TruckType:       booking.TruckType,
		AllocatedTrucks: booking.AllocatedTrucks,
		FinalRate:       booking.FinalRate,
		OccurredAt:      time.Now().UTC(),
	})

	log.Info("booking cancelled", "booking_id", booking.BookingID, "load_id", booking.LoadID)
	return booking, nil
}

func (s *BookingService) publishBookingEvent(ev eventdto.BookingEvent) {
	if s.broker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.broker.PublishBookingEvent(ctx, ev); err != nil {
		s.mylog.Warn("cannot publish booking event", "booking_id", ev.BookingID, "event_action", ev.Action)
	}
}

func (s *BookingService) notify(transporterID string, n eventdto.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyTransporter(transporterID, n)
}

func validateBookingRequest(req dto.BookingRequestDto) error {
	switch {
	case req.BidID == "":
		return fmt.Errorf("%w: bid_id is required", myerrors.ErrValidation)
	case req.AllocatedTrucks < 1:
		return fmt.Errorf("%w: allocated_trucks must be at least 1", myerrors.ErrValidation)
	case req.FinalRate <= 0:
		return fmt.Errorf("%w: final_rate must be positive", myerrors.ErrValidation)
	}
	return nil
}
