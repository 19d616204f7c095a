package handle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"
)

type LoadsHandler struct {
	loadService ports.ILoadService
	log         mylogger.Logger
}

func NewLoadsHandler(ls ports.ILoadService, log mylogger.Logger) *LoadsHandler {
	return &LoadsHandler{
		loadService: ls,
		log:         log,
	}
}

func (lh *LoadsHandler) CreateLoad() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LoadRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := lh.loadService.CreateLoad(r.Context(), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (lh *LoadsHandler) GetLoad() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loadID := r.PathValue("load_id")

		res, err := lh.loadService.GetLoad(r.Context(), loadID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (lh *LoadsHandler) ListLoads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))

		q := dto.LoadListQueryDto{
			ShipperID: r.URL.Query().Get("shipperId"),
			Status:    r.URL.Query().Get("status"),
			Page:      page,
			Size:      size,
		}

		res, err := lh.loadService.ListLoads(r.Context(), q)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (lh *LoadsHandler) UpdateLoad() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loadID := r.PathValue("load_id")

		req := dto.LoadUpdateDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := lh.loadService.UpdateLoad(r.Context(), loadID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (lh *LoadsHandler) CancelLoad() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loadID := r.PathValue("load_id")

		res, err := lh.loadService.CancelLoad(r.Context(), loadID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (lh *LoadsHandler) BestBids() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loadID := r.PathValue("load_id")

		res, err := lh.loadService.RankBids(r.Context(), loadID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
