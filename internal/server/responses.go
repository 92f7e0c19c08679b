package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
)

var validate = validator.New()

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type CreateLotRequest struct {
	Name         string             `json:"name" validate:"required,max=200"`
	Currency     string             `json:"currency" validate:"omitempty,len=3,alpha"`
	RatesPerHour map[string]float64 `json:"rates_per_hour" validate:"required,dive,keys,oneof=COMPACT REGULAR LARGE,endkeys,gte=0"`
	Floors       []FloorRequest     `json:"floors" validate:"required,min=1,dive"`
}

type FloorRequest struct {
	Level int            `json:"level" validate:"gt=0"`
	Spots map[string]int `json:"spots" validate:"required,dive,keys,oneof=COMPACT REGULAR LARGE,endkeys,gte=0"`
}

func (req CreateLotRequest) toSpec() parking.LotSpec {
	rates := make(map[parking.SpotType]float64, len(req.RatesPerHour))
	for k, v := range req.RatesPerHour {
		rates[parking.SpotType(k)] = v
	}
	floors := make([]parking.FloorSpec, len(req.Floors))
	for i, f := range req.Floors {
		spots := make(map[parking.SpotType]int, len(f.Spots))
		for k, v := range f.Spots {
			spots[parking.SpotType(k)] = v
		}
		floors[i] = parking.FloorSpec{Level: f.Level, Spots: spots}
	}
	return parking.LotSpec{
		Name:         strings.TrimSpace(req.Name),
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		RatesPerHour: rates,
		Floors:       floors,
	}
}

type CheckInRequest struct {
	LotID         string `json:"lot_id" validate:"required"`
	VehicleType   string `json:"vehicle_type" validate:"required,oneof=MOTORCYCLE CAR BUS"`
	VehicleNumber string `json:"vehicle_number" validate:"required,max=32"`
}

type CheckOutRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type AvailabilityResponse struct {
	LotID        string               `json:"lot_id"`
	Availability parking.Availability `json:"availability"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	meta.RequestID = logging.RequestIDFromContext(ctx)

	return meta
}

func writeData(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	writeData(ctx, w, http.StatusOK, message, data)
}

func WriteCreated(ctx context.Context, w http.ResponseWriter, message string, data any) {
	writeData(ctx, w, http.StatusCreated, message, data)
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}

// StatusForError maps a core error kind to its HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, parking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, parking.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, parking.ErrConflict), errors.Is(err, parking.ErrLotFull):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		logging.WithFields(ctx, map[string]interface{}{"event": "unhandled_error"}).Error(err.Error())
		WriteError(ctx, w, status, "Internal Server Error")
		return
	}
	WriteError(ctx, w, status, err.Error())
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) (string, bool) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return "Invalid request body", false
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err), false
	}
	return "", true
}
