package handle

import (
	"encoding/json"
	"net/http"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"
)

type BidsHandler struct {
	bidService ports.IBidService
	log        mylogger.Logger
}

func NewBidsHandler(bs ports.IBidService, log mylogger.Logger) *BidsHandler {
	return &BidsHandler{
		bidService: bs,
		log:        log,
	}
}

func (bh *BidsHandler) SubmitBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.BidRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := bh.bidService.SubmitBid(r.Context(), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (bh *BidsHandler) GetBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bidID := r.PathValue("bid_id")

		res, err := bh.bidService.GetBid(r.Context(), bidID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (bh *BidsHandler) FilterBids() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := dto.BidFilterDto{
			LoadID:        r.URL.Query().Get("loadId"),
			TransporterID: r.URL.Query().Get("transporterId"),
			Status:        r.URL.Query().Get("status"),
		}

		res, err := bh.bidService.FilterBids(r.Context(), f)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (bh *BidsHandler) RejectBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bidID := r.PathValue("bid_id")

		res, err := bh.bidService.RejectBid(r.Context(), bidID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
