package handle

import (
	"encoding/json"
	"net/http"

	"freight-bid/internal/freight-service/core/domain/dto"
	"freight-bid/internal/freight-service/core/ports"
	"freight-bid/internal/mylogger"
)

type TransportersHandler struct {
	transporterService ports.ITransporterService
	log                mylogger.Logger
}

func NewTransportersHandler(ts ports.ITransporterService, log mylogger.Logger) *TransportersHandler {
	return &TransportersHandler{
		transporterService: ts,
		log:                log,
	}
}

func (th *TransportersHandler) RegisterTransporter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.TransporterRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := th.transporterService.RegisterTransporter(r.Context(), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (th *TransportersHandler) GetTransporter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transporterID := r.PathValue("transporter_id")

		res, err := th.transporterService.GetTransporter(r.Context(), transporterID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (th *TransportersHandler) ListTransporters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := th.transporterService.ListTransporters(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (th *TransportersHandler) ReplaceFleet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transporterID := r.PathValue("transporter_id")

		req := dto.FleetUpdateDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := th.transporterService.ReplaceFleet(r.Context(), transporterID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
