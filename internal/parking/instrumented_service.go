package parking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedService struct {
	*Service
	telemetry *TelemetryProvider

	// Metrics
	checkInOperations  metric.Int64Counter
	checkOutOperations metric.Int64Counter
	lotOperations      metric.Int64Counter
	occupancyGauge     metric.Int64UpDownCounter
	totalSpotsGauge    metric.Int64UpDownCounter
	feesCollected      metric.Float64Counter
	operationDuration  metric.Float64Histogram
}

func NewInstrumentedService(svc *Service, telemetry *TelemetryProvider) (*InstrumentedService, error) {
	meter := telemetry.Meter()

	checkInOperations, err := meter.Int64Counter("checkin_operations_total",
		metric.WithDescription("Total number of check-in operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	checkOutOperations, err := meter.Int64Counter("checkout_operations_total",
		metric.WithDescription("Total number of check-out operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	lotOperations, err := meter.Int64Counter("lot_operations_total",
		metric.WithDescription("Total number of lot creations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking spots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	totalSpotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_spots",
		metric.WithDescription("Total number of parking spots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	feesCollected, err := meter.Float64Counter("parking_fees_total",
		metric.WithDescription("Total fees charged at check-out"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedService{
		Service:            svc,
		telemetry:          telemetry,
		checkInOperations:  checkInOperations,
		checkOutOperations: checkOutOperations,
		lotOperations:      lotOperations,
		occupancyGauge:     occupancyGauge,
		totalSpotsGauge:    totalSpotsGauge,
		feesCollected:      feesCollected,
		operationDuration:  operationDuration,
	}, nil
}

func errorStatus(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrLotFull):
		return "lot_full"
	default:
		return "failed"
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (is *InstrumentedService) CreateLot(ctx context.Context, spec LotSpec) (Lot, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking_lot.create",
		trace.WithAttributes(
			attribute.String("lot.name", spec.Name),
			attribute.Int("lot.floors", len(spec.Floors)),
		))
	defer span.End()

	start := time.Now()
	lot, err := is.Service.CreateLot(ctx, spec)
	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{attribute.String("operation", "create_lot")}

	if err != nil {
		recordSpanError(span, err)
		labels = append(labels, attribute.String("status", errorStatus(err)))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.String("lot.id", lot.ID))

		var total int64
		for _, n := range lot.TotalSpots() {
			total += int64(n)
		}
		is.totalSpotsGauge.Add(ctx, total, metric.WithAttributes(attribute.String("lot_id", lot.ID)))
	}

	is.lotOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	is.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return lot, err
}

func (is *InstrumentedService) CheckIn(ctx context.Context, req CheckInRequest) (CheckInResult, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking_lot.check_in",
		trace.WithAttributes(
			attribute.String("lot.id", req.LotID),
			attribute.String("vehicle.type", string(req.VehicleType)),
			attribute.String("vehicle.number", req.VehicleNumber),
		))
	defer span.End()

	start := time.Now()
	span.AddEvent("allocating_spot")

	result, err := is.Service.CheckIn(ctx, req)
	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "check_in"),
		attribute.String("vehicle_type", string(req.VehicleType)),
	}

	if err != nil {
		recordSpanError(span, err)
		labels = append(labels, attribute.String("status", errorStatus(err)))
	} else {
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.String("spot_type", string(result.Spot.Type)),
		)
		span.SetAttributes(
			attribute.String("ticket.id", result.Ticket.ID),
			attribute.String("spot.id", result.Spot.ID),
		)
		span.AddEvent("spot_allocated", trace.WithAttributes(
			attribute.String("spot.type", string(result.Spot.Type)),
			attribute.Int("spot.level", result.Spot.Level),
		))
		is.occupancyGauge.Add(ctx, 1, metric.WithAttributes(attribute.String("spot_type", string(result.Spot.Type))))
	}

	is.checkInOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	is.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return result, err
}

func (is *InstrumentedService) CheckOut(ctx context.Context, ticketID string, at time.Time) (CheckOutResult, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking_lot.check_out",
		trace.WithAttributes(attribute.String("ticket.id", ticketID)))
	defer span.End()

	start := time.Now()
	span.AddEvent("releasing_spot")

	result, err := is.Service.CheckOut(ctx, ticketID, at)
	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{attribute.String("operation", "check_out")}

	if err != nil {
		recordSpanError(span, err)
		labels = append(labels, attribute.String("status", errorStatus(err)))
	} else {
		spotType := string(result.Ticket.SpotType)
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.String("spot_type", spotType),
		)
		span.SetAttributes(
			attribute.String("lot.id", result.Ticket.LotID),
			attribute.Int64("fee.billable_hours", result.Fee.BillableHours),
			attribute.Float64("fee.total", result.Fee.TotalFee),
		)
		span.AddEvent("spot_released")
		is.occupancyGauge.Add(ctx, -1, metric.WithAttributes(attribute.String("spot_type", spotType)))
		is.feesCollected.Add(ctx, result.Fee.TotalFee, metric.WithAttributes(
			attribute.String("currency", result.Fee.Currency),
			attribute.String("spot_type", spotType),
		))
	}

	is.checkOutOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	is.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return result, err
}

func (is *InstrumentedService) Availability(ctx context.Context, lotID string) (Availability, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking_lot.availability",
		trace.WithAttributes(attribute.String("lot.id", lotID)))
	defer span.End()

	start := time.Now()
	avail, err := is.Service.Availability(ctx, lotID)
	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{attribute.String("operation", "availability")}
	if err != nil {
		recordSpanError(span, err)
		labels = append(labels, attribute.String("status", errorStatus(err)))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		for _, st := range SpotTypes {
			span.SetAttributes(attribute.Int("free."+string(st), avail.Free[st]))
		}
	}

	is.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))
	return avail, err
}

func (is *InstrumentedService) GetTicket(ctx context.Context, ticketID string) (Ticket, error) {
	ctx, span := is.telemetry.Tracer().Start(ctx, "parking_lot.get_ticket",
		trace.WithAttributes(attribute.String("ticket.id", ticketID)))
	defer span.End()

	ticket, err := is.Service.GetTicket(ctx, ticketID)
	if err != nil {
		span.AddEvent("ticket_not_found")
		return ticket, err
	}
	span.SetAttributes(attribute.String("ticket.status", string(ticket.Status)))
	return ticket, nil
}
