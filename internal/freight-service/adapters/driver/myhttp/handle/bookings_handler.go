package handle

import (
	"encoding/json"
	"fmt"
	"net/http"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"
)

type BookingsHandler struct {
	bookingService ports.IBookingService
	log            mylogger.Logger
}

func NewBookingsHandler(bs ports.IBookingService, log mylogger.Logger) *BookingsHandler {
	return &BookingsHandler{
		bookingService: bs,
		log:            log,
	}
}

func (bh *BookingsHandler) CreateBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.BookingRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := bh.bookingService.CreateBooking(r.Context(), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (bh *BookingsHandler) GetBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := r.PathValue("booking_id")

		res, err := bh.bookingService.GetBooking(r.Context(), bookingID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (bh *BookingsHandler) ListBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loadID := r.URL.Query().Get("loadId")
		if loadID == "" {
			JsonError(w, http.StatusBadRequest, fmt.Errorf("loadId query parameter is required"))
			return
		}

		res, err := bh.bookingService.ListBookingsByLoad(r.Context(), loadID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (bh *BookingsHandler) CancelBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := r.PathValue("booking_id")

		res, err := bh.bookingService.CancelBooking(r.Context(), bookingID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
