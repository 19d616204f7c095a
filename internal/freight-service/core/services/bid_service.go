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

type BidService struct {
	mylog    mylogger.Logger
	store    ports.Store
	broker   ports.IFreightBroker
	notifier ports.INotifyTransporter
}

func NewBidService(log mylogger.Logger, store ports.Store, broker ports.IFreightBroker, notifier ports.INotifyTransporter) ports.IBidService {
	return &BidService{
		mylog:    log,
		store:    store,
		broker:   broker,
		notifier: notifier,
	}
}

// SubmitBid admits a new PENDING bid against a biddable load. Capacity is only
// checked, never deducted here. The first bid flips the load from POSTED to
// OPEN_FOR_BIDS inside the same atomic unit, so a concurrent cancel or booking
// of that load makes the whole submission fail and retry.
func (s *BidService) SubmitBid(ctx context.Context, req dto.BidRequestDto) (*model.Bid, error) {
	log := s.mylog.Action("SubmitBid")

	if err := validateBidRequest(req); err != nil {
		return nil, err
	}

	var bid *model.Bid
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		load, err := tx.Loads().Get(ctx, req.LoadID)
		if err != nil {
			return err
		}

		if !load.Biddable() {
			return fmt.Errorf("%w: cannot bid on %s load %s", myerrors.ErrInvalidTransition, load.Status, load.LoadID)
		}

		transporter, err := tx.Transporters().Get(ctx, req.TransporterID)
		if err != nil {
			return err
		}

		if !transporter.HasCapacity(load.TruckType, req.TrucksOffered) {
			return fmt.Errorf("%w: transporter %s cannot offer %d trucks of type %q",
				myerrors.ErrInsufficientCapacity, transporter.CompanyName, req.TrucksOffered, load.TruckType)
		}

		// First bid opens bidding.
		if load.Status == model.LoadPosted {
			load.Status = model.LoadOpenForBids
			if err := tx.Loads().Save(ctx, load); err != nil {
				return err
			}
		}

		bid = &model.Bid{
			BidID:         uuid.NewString(),
			LoadID:        req.LoadID,
			TransporterID: req.TransporterID,
			ProposedRate:  req.ProposedRate,
			TrucksOffered: req.TrucksOffered,
			Status:        model.BidPending,
			SubmittedAt:   time.Now().UTC(),
		}
		return tx.Bids().Create(ctx, bid)
	})
	if err != nil {
		log.Warn("bid rejected at admission", "load_id", req.LoadID,
			"transporter_id", req.TransporterID, "reason", err.Error())
		return nil, err
	}

	s.publishBidEvent(eventdto.BidEvent{
		Action:        "submitted",
		BidID:         bid.BidID,
		LoadID:        bid.LoadID,
		TransporterID: bid.TransporterID,
		ProposedRate:  bid.ProposedRate,
		OccurredAt:    bid.SubmittedAt,
	})

	log.Info("bid submitted", "bid_id", bid.BidID, "load_id", bid.LoadID, "rate", bid.ProposedRate)
	return bid, nil
}

func (s *BidService) GetBid(ctx context.Context, bidID string) (*model.Bid, error) {
	return s.store.Bids().Get(ctx, bidID)
}

func (s *BidService) FilterBids(ctx context.Context, f dto.BidFilterDto) ([]model.Bid, error) {
	return s.store.Bids().Filter(ctx, ports.BidFilter{
		LoadID:        f.LoadID,
		TransporterID: f.TransporterID,
		Status:        model.BidStatus(f.Status),
	})
}

// RejectBid is only legal while the bid is still PENDING.
func (s *BidService) RejectBid(ctx context.Context, bidID string) (*model.Bid, error) {
	log := s.mylog.Action("RejectBid")

	bid, err := s.store.Bids().Get(ctx, bidID)
	if err != nil {
		return nil, err
	}

	if bid.Status != model.BidPending {
		return nil, fmt.Errorf("%w: only PENDING bids can be rejected, current status %s",
			myerrors.ErrInvalidTransition, bid.Status)
	}

	bid.Status = model.BidRejected
	if err := s.store.Bids().Save(ctx, bid); err != nil {
		return nil, err
	}

	s.notify(bid.TransporterID, eventdto.Notification{
		Type:    "bid_rejected",
		LoadID:  bid.LoadID,
		BidID:   bid.BidID,
		Message: "your bid was rejected",
	})
	s.publishBidEvent(eventdto.BidEvent{
		Action:        "rejected",
		BidID:         bid.BidID,
		LoadID:        bid.LoadID,
		TransporterID: bid.TransporterID,
		ProposedRate:  bid.ProposedRate,
		OccurredAt:    time.Now().UTC(),
	})

	log.Info("bid rejected", "bid_id", bid.BidID, "load_id", bid.LoadID)
	return bid, nil
}

func (s *BidService) publishBidEvent(ev eventdto.BidEvent) {
	if s.broker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.broker.PublishBidEvent(ctx, ev); err != nil {
		s.mylog.Warn("cannot publish bid event", "bid_id", ev.BidID, "event_action", ev.Action)
	}
}

func (s *BidService) notify(transporterID string, n eventdto.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyTransporter(transporterID, n)
}

func validateBidRequest(req dto.BidRequestDto) error {
	switch {
	case req.LoadID == "":
		return fmt.Errorf("%w: load_id is required", myerrors.ErrValidation)
	case req.TransporterID == "":
		return fmt.Errorf("%w: transporter_id is required", myerrors.ErrValidation)
	case req.ProposedRate <= 0:
		return fmt.Errorf("%w: proposed_rate must be positive", myerrors.ErrValidation)
	case req.TrucksOffered < 1:
		return fmt.Errorf("%w: trucks_offered must be at least 1", myerrors.ErrValidation)
	}
	return nil
}
