package db

import (
	"context"
	"errors"
	"fmt"

	"freight-bid/internal/freight-service/core/domain/model"
	"freight-bid/internal/freight-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type bookingRepo struct {
	q querier
}

func (r *bookingRepo) Create(ctx context.Context, b *model.Booking) error {
	q := `
	INSERT INTO bookings (
		booking_id,
		load_id,
		bid_id,
		transporter_id,
		allocated_trucks,
		final_rate,
		truck_type,
		status,
		booked_at,
		version
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)`

	b.Version = 0
	_, err := r.q.Exec(ctx, q,
		b.BookingID,
		b.LoadID,
		b.BidID,
		b.TransporterID,
		b.AllocatedTrucks,
		b.FinalRate,
		b.TruckType,
		b.Status,
		b.BookedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: bid %s already has a booking", myerrors.ErrAlreadyExists, b.BidID)
	}
	return err
}

func (r *bookingRepo) Get(ctx context.Context, bookingID string) (*model.Booking, error) {
	q := `
	SELECT booking_id, load_id, bid_id, transporter_id, allocated_trucks,
	       final_rate, truck_type, status, booked_at, version
	FROM bookings
	WHERE booking_id = $1`

	b := model.Booking{}
	err := r.q.QueryRow(ctx, q, bookingID).Scan(
		&b.BookingID, &b.LoadID, &b.BidID, &b.TransporterID, &b.AllocatedTrucks,
		&b.FinalRate, &b.TruckType, &b.Status, &b.BookedAt, &b.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %s", myerrors.ErrNotFound, bookingID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) Save(ctx context.Context, b *model.Booking) error {
	q := `
	UPDATE bookings SET
		status  = $2,
		version = version + 1
	WHERE booking_id = $1 AND version = $3`

	tag, err := r.q.Exec(ctx, q, b.BookingID, b.Status, b.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %s",
			saveOutcome(ctx, r.q, `SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_id = $1)`, b.BookingID), b.BookingID)
	}
	b.Version++
	return nil
}

func (r *bookingRepo) ListByLoad(ctx context.Context, loadID string) ([]model.Booking, error) {
	q := `
	SELECT booking_id, load_id, bid_id, transporter_id, allocated_trucks,
	       final_rate, truck_type, status, booked_at, version
	FROM bookings
	WHERE load_id = $1
	ORDER BY booked_at`

	rows, err := r.q.Query(ctx, q, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b := model.Booking{}
		if err := rows.Scan(
			&b.BookingID, &b.LoadID, &b.BidID, &b.TransporterID, &b.AllocatedTrucks,
			&b.FinalRate, &b.TruckType, &b.Status, &b.BookedAt, &b.Version,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
