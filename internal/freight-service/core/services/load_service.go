package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/eventdto"
	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// Ranking weights: lower rate dominates, rating tops it up.
	rateWeight   = 0.7
	ratingWeight = 0.3
	maxRating    = 5.0
)

type LoadService struct {
	mylog    mylogger.Logger
	store    ports.Store
	broker   ports.IFreightBroker
	notifier ports.INotifyTransporter
}

func NewLoadService(log mylogger.Logger, store ports.Store, broker ports.IFreightBroker, notifier ports.INotifyTransporter) ports.ILoadService {
	return &LoadService{
		mylog:    log,
		store:    store,
		broker:   broker,
		notifier: notifier,
	}
}

func (s *LoadService) CreateLoad(ctx context.Context, req dto.LoadRequestDto) (*model.Load, error) {
	log := s.mylog.Action("CreateLoad")

	if err := validateLoadRequest(req); err != nil {
		return nil, err
	}

	load := &model.Load{
		LoadID:          uuid.NewString(),
		ShipperID:       req.ShipperID,
		LoadingCity:     req.LoadingCity,
		UnloadingCity:   req.UnloadingCity,
		LoadingDate:     req.LoadingDate,
		ProductType:     req.ProductType,
		Weight:          req.Weight,
		WeightUnit:      req.WeightUnit,
		TruckType:       req.TruckType,
		NoOfTrucks:      req.NoOfTrucks,
		RemainingTrucks: req.NoOfTrucks,
		Status:          model.LoadPosted,
		DatePosted:      time.Now().UTC(),
	}

	if err := s.store.Loads().Create(ctx, load); err != nil {
		log.Error("cannot create load", err)
		return nil, err
	}

	s.publishLoadEvent(eventdto.LoadEvent{
		Action:        "posted",
		LoadID:        load.LoadID,
		ShipperID:     load.ShipperID,
		TruckType:     load.TruckType,
		LoadingCity:   load.LoadingCity,
		UnloadingCity: load.UnloadingCity,
		NoOfTrucks:    load.NoOfTrucks,
		OccurredAt:    load.DatePosted,
	})

	log.Info("load posted", "load_id", load.LoadID, "shipper_id", load.ShipperID, "trucks", load.NoOfTrucks)
	return load, nil
}

func (s *LoadService) GetLoad(ctx context.Context, loadID string) (*model.Load, error) {
	return s.store.Loads().Get(ctx, loadID)
}

func (s *LoadService) ListLoads(ctx context.Context, q dto.LoadListQueryDto) ([]model.Load, error) {
	size := q.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := q.Page
	if page < 0 {
		page = 0
	}

	f := ports.LoadFilter{
		ShipperID: q.ShipperID,
		Status:    model.LoadStatus(q.Status),
		Page:      page,
		Size:      size,
	}
	return s.store.Loads().List(ctx, f)
}

func (s *LoadService) UpdateLoad(ctx context.Context, loadID string, req dto.LoadUpdateDto) (*model.Load, error) {
	log := s.mylog.Action("UpdateLoad")

	var load *model.Load
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		load, err = tx.Loads().Get(ctx, loadID)
		if err != nil {
			return err
		}

		if req.LoadingCity != nil {
			load.LoadingCity = *req.LoadingCity
		}
		if req.UnloadingCity != nil {
			load.UnloadingCity = *req.UnloadingCity
		}
		if req.LoadingDate != nil {
			load.LoadingDate = *req.LoadingDate
		}
		if req.ProductType != nil {
			load.ProductType = *req.ProductType
		}
		if req.Weight != nil {
			load.Weight = *req.Weight
		}
		if req.WeightUnit != nil {
			load.WeightUnit = *req.WeightUnit
		}
		if req.TruckType != nil {
			load.TruckType = *req.TruckType
		}
		if req.NoOfTrucks != nil {
			if *req.NoOfTrucks < 1 {
				return fmt.Errorf("%w: no_of_trucks must be at least 1", myerrors.ErrValidation)
			}
			load.NoOfTrucks = *req.NoOfTrucks
			load.RemainingTrucks = *req.NoOfTrucks
		}

		return tx.Loads().Save(ctx, load)
	})
	if err != nil {
		log.Warn("load update failed", "load_id", loadID, "reason", err.Error())
		return nil, err
	}

	log.Info("load updated", "load_id", loadID)
	return load, nil
}

// CancelLoad rejects every pending bid and moves the load to CANCELLED, all in
// one atomic unit. BOOKED loads cannot be cancelled directly: capacity has to
// come back through booking reversal first.
func (s *LoadService) CancelLoad(ctx context.Context, loadID string) (*model.Load, error) {
	log := s.mylog.Action("CancelLoad")

	var (
		load     *model.Load
		rejected []model.Bid
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		rejected = rejected[:0]

		var err error
		load, err = tx.Loads().Get(ctx, loadID)
		if err != nil {
			return err
		}

		if !load.Cancellable() {
			if load.Status == model.LoadCancelled {
				return fmt.Errorf("%w: load %s is already cancelled", myerrors.ErrInvalidTransition, loadID)
			}
			return fmt.Errorf("%w: cannot cancel load %s in %s status", myerrors.ErrInvalidTransition, loadID, load.Status)
		}

		pending, err := tx.Bids().Filter(ctx, ports.BidFilter{LoadID: loadID, Status: model.BidPending})
		if err != nil {
			return err
		}
		for i := range pending {
			pending[i].Status = model.BidRejected
			if err := tx.Bids().Save(ctx, &pending[i]); err != nil {
				return err
			}
			rejected = append(rejected, pending[i])
		}

		// Confirmed bookings are deliberately left alone; whether a load
		// cancel should cascade to them is an open product question.
		bookings, err := tx.Bookings().ListByLoad(ctx, loadID)
		if err != nil {
			return err
		}
		for i := range bookings {
			if bookings[i].Status == model.BookingConfirmed {
				log.Warn("cancelling load with confirmed bookings",
					"load_id", loadID, "booking_id", bookings[i].BookingID)
			}
		}

		load.Status = model.LoadCancelled
		return tx.Loads().Save(ctx, load)
	})
	if err != nil {
		return nil, err
	}

	for i := range rejected {
		s.notify(rejected[i].TransporterID, eventdto.Notification{
			Type:    "bid_rejected",
			LoadID:  loadID,
			BidID:   rejected[i].BidID,
			Message: "load was cancelled by the shipper",
		})
	}
	s.publishLoadEvent(eventdto.LoadEvent{
		Action:        "cancelled",
		LoadID:        load.LoadID,
		ShipperID:     load.ShipperID,
		TruckType:     load.TruckType,
		LoadingCity:   load.LoadingCity,
		UnloadingCity: load.UnloadingCity,
		NoOfTrucks:    load.NoOfTrucks,
		OccurredAt:    time.Now().UTC(),
	})

	log.Info("load cancelled", "load_id", loadID, "rejected_bids", len(rejected))
	return load, nil
}

// RankBids scores the load's pending bids and returns them best first.
// Equal scores keep submission order. No pending bids is not an error.
func (s *LoadService) RankBids(ctx context.Context, loadID string) ([]dto.BestBidDto, error) {
	log := s.mylog.Action("RankBids")

	if _, err := s.store.Loads().Get(ctx, loadID); err != nil {
		return nil, err
	}

	pending, err := s.store.Bids().Filter(ctx, ports.BidFilter{LoadID: loadID, Status: model.BidPending})
	if err != nil {
		return nil, err
	}

	ranked := make([]dto.BestBidDto, 0, len(pending))
	for i := range pending {
		transporter, err := s.store.Transporters().Get(ctx, pending[i].TransporterID)
		if err != nil {
			log.Error("bid references missing transporter", err,
				"bid_id", pending[i].BidID, "transporter_id", pending[i].TransporterID)
			return nil, err
		}

		score := rateWeight*(1.0/pending[i].ProposedRate) + ratingWeight*(transporter.Rating/maxRating)
		ranked = append(ranked, dto.BestBidDto{
			BidID:             pending[i].BidID,
			TransporterID:     pending[i].TransporterID,
			ProposedRate:      pending[i].ProposedRate,
			TransporterRating: transporter.Rating,
			Score:             score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}

func (s *LoadService) publishLoadEvent(ev eventdto.LoadEvent) {
	if s.broker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.broker.PublishLoadEvent(ctx, ev); err != nil {
		s.mylog.Warn("cannot publish load event", "load_id", ev.LoadID, "event_action", ev.Action)
	}
}

func (s *LoadService) notify(transporterID string, n eventdto.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyTransporter(transporterID, n)
}

func validateLoadRequest(req dto.LoadRequestDto) error {
	switch {
	case req.ShipperID == "":
		return fmt.Errorf("%w: shipper_id is required", myerrors.ErrValidation)
	case req.LoadingCity == "" || req.UnloadingCity == "":
		return fmt.Errorf("%w: loading_city and unloading_city are required", myerrors.ErrValidation)
	case req.ProductType == "":
		return fmt.Errorf("%w: product_type is required", myerrors.ErrValidation)
	case req.Weight <= 0:
		return fmt.Errorf("%w: weight must be positive", myerrors.ErrValidation)
	case req.WeightUnit == "":
		return fmt.Errorf("%w: weight_unit is required", myerrors.ErrValidation)
	case req.TruckType == "":
		return fmt.Errorf("%w: truck_type is required", myerrors.ErrValidation)
	case req.NoOfTrucks < 1:
		return fmt.Errorf("%w: no_of_trucks must be at least 1", myerrors.ErrValidation)
	}
	return nil
}
