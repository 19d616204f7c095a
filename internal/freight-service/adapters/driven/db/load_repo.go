package db

import (
	"context"
	"errors"
	"fmt"

	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"
	"freight-bid/internal/freight-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type loadRepo struct {
	q querier
}

func (r *loadRepo) Create(ctx context.Context, l *model.Load) error {
	q := `
	INSERT INTO loads (
		load_id,
		shipper_id,
		loading_city,
		unloading_city,
		loading_date,
		product_type,
		weight,
		weight_unit,
		truck_type,
		no_of_trucks,
		remaining_trucks,
		status,
		date_posted,
		version
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0)`

	l.Version = 0
	_, err := r.q.Exec(ctx, q,
		l.LoadID,
		l.ShipperID,
		l.LoadingCity,
		l.UnloadingCity,
		l.LoadingDate,
		l.ProductType,
		l.Weight,
		l.WeightUnit,
		l.TruckType,
		l.NoOfTrucks,
		l.RemainingTrucks,
		l.Status,
		l.DatePosted,
	)
	return err
}

func (r *loadRepo) Get(ctx context.Context, loadID string) (*model.Load, error) {
	q := `
	SELECT
		load_id, shipper_id, loading_city, unloading_city, loading_date,
		product_type, weight, weight_unit, truck_type, no_of_trucks,
		remaining_trucks, status, date_posted, version
	FROM loads
	WHERE load_id = $1`

	l := model.Load{}
	err := r.q.QueryRow(ctx, q, loadID).Scan(
		&l.LoadID, &l.ShipperID, &l.LoadingCity, &l.UnloadingCity, &l.LoadingDate,
		&l.ProductType, &l.Weight, &l.WeightUnit, &l.TruckType, &l.NoOfTrucks,
		&l.RemainingTrucks, &l.Status, &l.DatePosted, &l.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: load %s", myerrors.ErrNotFound, loadID)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loadRepo) Save(ctx context.Context, l *model.Load) error {
	q := `
	UPDATE loads SET
		shipper_id       = $2,
		loading_city     = $3,
		unloading_city   = $4,
		loading_date     = $5,
		product_type     = $6,
		weight           = $7,
		weight_unit      = $8,
		truck_type       = $9,
		no_of_trucks     = $10,
		remaining_trucks = $11,
		status           = $12,
		version          = version + 1
	WHERE load_id = $1 AND version = $13`

	tag, err := r.q.Exec(ctx, q,
		l.LoadID,
		l.ShipperID,
		l.LoadingCity,
		l.UnloadingCity,
		l.LoadingDate,
		l.ProductType,
		l.Weight,
		l.WeightUnit,
		l.TruckType,
		l.NoOfTrucks,
		l.RemainingTrucks,
		l.Status,
		l.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: load %s",
			saveOutcome(ctx, r.q, `SELECT EXISTS (SELECT 1 FROM loads WHERE load_id = $1)`, l.LoadID), l.LoadID)
	}
	l.Version++
	return nil
}

func (r *loadRepo) List(ctx context.Context, f ports.LoadFilter) ([]model.Load, error) {
	q := `
	SELECT
		load_id, shipper_id, loading_city, unloading_city, loading_date,
		product_type, weight, weight_unit, truck_type, no_of_trucks,
		remaining_trucks, status, date_posted, version
	FROM loads
	WHERE ($1 = '' OR shipper_id = $1)
	  AND ($2 = '' OR status = $2)
	ORDER BY date_posted, load_id
	LIMIT $3 OFFSET $4`

	size := f.Size
	if size <= 0 {
		size = 10
	}
	rows, err := r.q.Query(ctx, q, f.ShipperID, string(f.Status), size, f.Page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loads := make([]model.Load, 0)
	for rows.Next() {
		l := model.Load{}
		if err := rows.Scan(
			&l.LoadID, &l.ShipperID, &l.LoadingCity, &l.UnloadingCity, &l.LoadingDate,
			&l.ProductType, &l.Weight, &l.WeightUnit, &l.TruckType, &l.NoOfTrucks,
			&l.RemainingTrucks, &l.Status, &l.DatePosted, &l.Version,
		); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}
