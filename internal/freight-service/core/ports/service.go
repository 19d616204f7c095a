package ports

import (
	"context"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/domain/model"
)

type ILoadService interface {
	CreateLoad(ctx context.Context, req dto.LoadRequestDto) (*model.Load, error)
	GetLoad(ctx context.Context, loadID string) (*model.Load, error)
	ListLoads(ctx context.Context, q dto.LoadListQueryDto) ([]model.Load, error)
	UpdateLoad(ctx context.Context, loadID string, req dto.LoadUpdateDto) (*model.Load, error)
	CancelLoad(ctx context.Context, loadID string) (*model.Load, error)
	RankBids(ctx context.Context, loadID string) ([]dto.BestBidDto, error)
}

type IBidService interface {
	SubmitBid(ctx context.Context, req dto.BidRequestDto) (*model.Bid, error)
	GetBid(ctx context.Context, bidID string) (*model.Bid, error)
	FilterBids(ctx context.Context, f dto.BidFilterDto) ([]model.Bid, error)
	RejectBid(ctx context.Context, bidID string) (*model.Bid, error)
}

type IBookingService interface {
	CreateBooking(ctx context.Context, req dto.BookingRequestDto) (*model.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*model.Booking, error)
	ListBookingsByLoad(ctx context.Context, loadID string) ([]model.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*model.Booking, error)
}

type ITransporterService interface {
	RegisterTransporter(ctx context.Context, req dto.TransporterRequestDto) (*model.Transporter, error)
	GetTransporter(ctx context.Context, transporterID string) (*model.Transporter, error)
	ListTransporters(ctx context.Context) ([]model.Transporter, error)
	ReplaceFleet(ctx context.Context, transporterID string, req dto.FleetUpdateDto) (*model.Transporter, error)
}
