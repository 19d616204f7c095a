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

type bidRepo struct {
	q querier
}

func (r *bidRepo) Create(ctx context.Context, b *model.Bid) error {
	q := `
	INSERT INTO bids (
		bid_id,
		load_id,
		transporter_id,
		proposed_rate,
		trucks_offered,
		status,
		submitted_at,
		version
	) VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
	RETURNING seq`

	b.Version = 0
	return r.q.QueryRow(ctx, q,
		b.BidID,
		b.LoadID,
		b.TransporterID,
		b.ProposedRate,
		b.TrucksOffered,
		b.Status,
		b.SubmittedAt,
	).Scan(&b.Seq)
}

func (r *bidRepo) Get(ctx context.Context, bidID string) (*model.Bid, error) {
	q := `
	SELECT bid_id, load_id, transporter_id, proposed_rate, trucks_offered,
	       status, submitted_at, seq, version
	FROM bids
	WHERE bid_id = $1`

	b := model.Bid{}
	err := r.q.QueryRow(ctx, q, bidID).Scan(
		&b.BidID, &b.LoadID, &b.TransporterID, &b.ProposedRate, &b.TrucksOffered,
		&b.Status, &b.SubmittedAt, &b.Seq, &b.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: bid %s", myerrors.ErrNotFound, bidID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bidRepo) Save(ctx context.Context, b *model.Bid) error {
	q := `
	UPDATE bids SET
		proposed_rate  = $2,
		trucks_offered = $3,
		status         = $4,
		version        = version + 1
	WHERE bid_id = $1 AND version = $5`

	tag, err := r.q.Exec(ctx, q, b.BidID, b.ProposedRate, b.TrucksOffered, b.Status, b.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bid %s",
			saveOutcome(ctx, r.q, `SELECT EXISTS (SELECT 1 FROM bids WHERE bid_id = $1)`, b.BidID), b.BidID)
	}
	b.Version++
	return nil
}

func (r *bidRepo) ListByLoad(ctx context.Context, loadID string) ([]model.Bid, error) {
	return r.Filter(ctx, ports.BidFilter{LoadID: loadID})
}

func (r *bidRepo) Filter(ctx context.Context, f ports.BidFilter) ([]model.Bid, error) {
	q := `
	SELECT bid_id, load_id, transporter_id, proposed_rate, trucks_offered,
	       status, submitted_at, seq, version
	FROM bids
	WHERE ($1 = '' OR load_id::text = $1)
	  AND ($2 = '' OR transporter_id::text = $2)
	  AND ($3 = '' OR status = $3)
	ORDER BY seq`

	rows, err := r.q.Query(ctx, q, f.LoadID, f.TransporterID, string(f.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]model.Bid, 0)
	for rows.Next() {
		b := model.Bid{}
		if err := rows.Scan(
			&b.BidID, &b.LoadID, &b.TransporterID, &b.ProposedRate, &b.TrucksOffered,
			&b.Status, &b.SubmittedAt, &b.Seq, &b.Version,
		); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}
