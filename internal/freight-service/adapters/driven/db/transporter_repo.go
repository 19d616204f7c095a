package db

import (
	"context"
	"errors"
	"fmt"

	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

// transporterRepo persists the transporter row plus its capacity ledger in
// transporter_trucks. Save rewrites the ledger, so callers mutating capacity
// must run inside WithinTx to keep row and ledger consistent.
type transporterRepo struct {
	q querier
}

func (r *transporterRepo) Create(ctx context.Context, t *model.Transporter) error {
	q := `
	INSERT INTO transporters (transporter_id, company_name, rating, version)
	VALUES ($1, $2, $3, 0)`

	t.Version = 0
	_, err := r.q.Exec(ctx, q, t.TransporterID, t.CompanyName, t.Rating)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: company %q", myerrors.ErrAlreadyExists, t.CompanyName)
	}
	if err != nil {
		return err
	}
	return r.insertTrucks(ctx, t)
}

func (r *transporterRepo) Get(ctx context.Context, transporterID string) (*model.Transporter, error) {
	q := `
	SELECT transporter_id, company_name, rating, version
	FROM transporters
	WHERE transporter_id = $1`

	t := model.Transporter{}
	err := r.q.QueryRow(ctx, q, transporterID).Scan(&t.TransporterID, &t.CompanyName, &t.Rating, &t.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transporter %s", myerrors.ErrNotFound, transporterID)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadTrucks(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transporterRepo) Save(ctx context.Context, t *model.Transporter) error {
	q := `
	UPDATE transporters SET
		company_name = $2,
		rating       = $3,
		version      = version + 1
	WHERE transporter_id = $1 AND version = $4`

	tag, err := r.q.Exec(ctx, q, t.TransporterID, t.CompanyName, t.Rating, t.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transporter %s",
			saveOutcome(ctx, r.q, `SELECT EXISTS (SELECT 1 FROM transporters WHERE transporter_id = $1)`, t.TransporterID), t.TransporterID)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM transporter_trucks WHERE transporter_id = $1`, t.TransporterID); err != nil {
		return err
	}
	if err := r.insertTrucks(ctx, t); err != nil {
		return err
	}
	t.Version++
	return nil
}

func (r *transporterRepo) List(ctx context.Context) ([]model.Transporter, error) {
	q := `
	SELECT transporter_id, company_name, rating, version
	FROM transporters
	ORDER BY company_name`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transporters := make([]model.Transporter, 0)
	for rows.Next() {
		t := model.Transporter{}
		if err := rows.Scan(&t.TransporterID, &t.CompanyName, &t.Rating, &t.Version); err != nil {
			return nil, err
		}
		transporters = append(transporters, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range transporters {
		if err := r.loadTrucks(ctx, &transporters[i]); err != nil {
			return nil, err
		}
	}
	return transporters, nil
}

func (r *transporterRepo) insertTrucks(ctx context.Context, t *model.Transporter) error {
	q := `
	INSERT INTO transporter_trucks (transporter_id, truck_type, count, position)
	VALUES ($1, $2, $3, $4)`

	for i, entry := range t.AvailableTrucks {
		if _, err := r.q.Exec(ctx, q, t.TransporterID, entry.TruckType, entry.Count, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *transporterRepo) loadTrucks(ctx context.Context, t *model.Transporter) error {
	q := `
	SELECT truck_type, count
	FROM transporter_trucks
	WHERE transporter_id = $1
	ORDER BY position`

	rows, err := r.q.Query(ctx, q, t.TransporterID)
	if err != nil {
		return err
	}
	defer rows.Close()

	t.AvailableTrucks = make([]model.TruckCapacity, 0)
	for rows.Next() {
		entry := model.TruckCapacity{}
		if err := rows.Scan(&entry.TruckType, &entry.Count); err != nil {
			return err
		}
		t.AvailableTrucks = append(t.AvailableTrucks, entry)
	}
	return rows.Err()
}
