package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"smart-parking/internal/parking"
)

type Handler struct {
	svc         *parking.InstrumentedService
	serviceName string
}

func NewHandler(svc *parking.InstrumentedService, serviceName string) *Handler {
	return &Handler{svc: svc, serviceName: serviceName}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
	})
}

func (h *Handler) CreateLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateLotRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		WriteError(ctx, w, http.StatusBadRequest, msg)
		return
	}

	lot, err := h.svc.CreateLot(ctx, req.toSpec())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	WriteCreated(ctx, w, "Parking lot created successfully", lot)
}

func (h *Handler) ListLots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	WriteSuccess(ctx, w, "Lots retrieved successfully", h.svc.ListLots(ctx))
}

func (h *Handler) GetLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lot, err := h.svc.GetLot(ctx, chi.URLParam(r, "lotID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Lot retrieved successfully", lot)
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lotID := chi.URLParam(r, "lotID")

	avail, err := h.svc.Availability(ctx, lotID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Availability retrieved successfully", AvailabilityResponse{
		LotID:        lotID,
		Availability: avail,
	})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckInRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		WriteError(ctx, w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.svc.CheckIn(ctx, parking.CheckInRequest{
		LotID:         strings.TrimSpace(req.LotID),
		VehicleType:   parking.VehicleType(req.VehicleType),
		VehicleNumber: req.VehicleNumber,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	WriteCreated(ctx, w, "Vehicle checked in successfully", result)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckOutRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		WriteError(ctx, w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.svc.CheckOut(ctx, strings.TrimSpace(req.TicketID), time.Time{})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Vehicle checked out successfully", result)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticket, err := h.svc.GetTicket(ctx, chi.URLParam(r, "ticketID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Ticket retrieved successfully", ticket)
}
