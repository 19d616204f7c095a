package services

import (
	"context"
	"fmt"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"

	"github.com/google/uuid"
)

type TransporterService struct {
	mylog mylogger.Logger
	store ports.Store
}

func NewTransporterService(log mylogger.Logger, store ports.Store) ports.ITransporterService {
	return &TransporterService{
		mylog: log,
		store: store,
	}
}

func (s *TransporterService) RegisterTransporter(ctx context.Context, req dto.TransporterRequestDto) (*model.Transporter, error) {
	log := s.mylog.Action("RegisterTransporter")

	if err := validateTransporterRequest(req); err != nil {
		return nil, err
	}

	transporter := &model.Transporter{
		TransporterID:   uuid.NewString(),
		CompanyName:     req.CompanyName,
		Rating:          req.Rating,
		AvailableTrucks: toCapacityList(req.AvailableTrucks),
	}

	if err := s.store.Transporters().Create(ctx, transporter); err != nil {
		log.Warn("transporter registration failed", "company", req.CompanyName, "reason", err.Error())
		return nil, err
	}

	log.Info("transporter registered", "transporter_id", transporter.TransporterID, "company", transporter.CompanyName)
	return transporter, nil
}

func (s *TransporterService) GetTransporter(ctx context.Context, transporterID string) (*model.Transporter, error) {
	return s.store.Transporters().Get(ctx, transporterID)
}

func (s *TransporterService) ListTransporters(ctx context.Context) ([]model.Transporter, error) {
	return s.store.Transporters().List(ctx)
}

// ReplaceFleet swaps the transporter's whole capacity ledger for a new one.
// Runs under the version guard: a booking committing concurrently makes the
// replacement fail rather than silently resurrect consumed capacity.
func (s *TransporterService) ReplaceFleet(ctx context.Context, transporterID string, req dto.FleetUpdateDto) (*model.Transporter, error) {
	log := s.mylog.Action("ReplaceFleet")

	if err := validateFleet(req.AvailableTrucks); err != nil {
		return nil, err
	}

	var transporter *model.Transporter
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		transporter, err = tx.Transporters().Get(ctx, transporterID)
		if err != nil {
			return err
		}
		transporter.AvailableTrucks = toCapacityList(req.AvailableTrucks)
		return tx.Transporters().Save(ctx, transporter)
	})
	if err != nil {
		log.Warn("fleet replacement failed", "transporter_id", transporterID, "reason", err.Error())
		return nil, err
	}

	log.Info("fleet replaced", "transporter_id", transporterID, "truck_types", len(transporter.AvailableTrucks))
	return transporter, nil
}

func toCapacityList(trucks []dto.TruckCapacityDto) []model.TruckCapacity {
	out := make([]model.TruckCapacity, 0, len(trucks))
	for _, t := range trucks {
		out = append(out, model.TruckCapacity{TruckType: t.TruckType, Count: t.Count})
	}
	return out
}

func validateTransporterRequest(req dto.TransporterRequestDto) error {
	if req.CompanyName == "" {
		return fmt.Errorf("%w: company_name is required", myerrors.ErrValidation)
	}
	if req.Rating < 1.0 || req.Rating > 5.0 {
		return fmt.Errorf("%w: rating must be between 1.0 and 5.0", myerrors.ErrValidation)
	}
	return validateFleet(req.AvailableTrucks)
}

func validateFleet(trucks []dto.TruckCapacityDto) error {
	for _, t := range trucks {
		if t.TruckType == "" {
			return fmt.Errorf("%w: truck_type is required", myerrors.ErrValidation)
		}
		if t.Count < 0 {
			return fmt.Errorf("%w: truck count cannot be negative", myerrors.ErrValidation)
		}
	}
	return nil
}
