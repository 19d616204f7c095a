package ports

import (
	"context"

	"freight-bid/internal/freight-service/core/domain/eventdto"
)

// IFreightBroker publishes lifecycle events after an atomic unit commits.
// Publishing is best-effort: a broker failure never rolls business state back.
type IFreightBroker interface {
	Close() error
	PublishLoadEvent(ctx context.Context, ev eventdto.LoadEvent) error
	PublishBidEvent(ctx context.Context, ev eventdto.BidEvent) error
	PublishBookingEvent(ctx context.Context, ev eventdto.BookingEvent) error
}

// INotifyTransporter pushes a notification to a connected transporter, if any.
type INotifyTransporter interface {
	NotifyTransporter(transporterID string, n eventdto.Notification)
}
