package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const createLotUsage = "Usage: create_lot <name> <currency> <compact_rate> <regular_rate> <large_rate> <level>:<compact>/<regular>/<large> ..."

type Shell struct {
	svc       *InstrumentedService
	telemetry *TelemetryProvider
	scanner   *bufio.Scanner
	out       io.Writer
}

func NewShell(svc *InstrumentedService, telemetry *TelemetryProvider, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc:       svc,
		telemetry: telemetry,
		scanner:   bufio.NewScanner(in),
		out:       out,
	}
}

func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for s.scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))
		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	span := trace.SpanFromContext(ctx)

	parts := strings.Fields(input)
	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "create_lot":
		s.handleCreateLot(ctx, parts)
	case "check_in":
		s.handleCheckIn(ctx, parts)
	case "check_out":
		s.handleCheckOut(ctx, parts)
	case "availability":
		s.handleAvailability(ctx, parts)
	case "ticket":
		s.handleTicket(ctx, parts)
	case "lots":
		s.handleLots(ctx)
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		s.printf("Unknown command: %s\n", command)
	}
}

func (s *Shell) printError(err error) {
	var perr *Error
	if errors.As(err, &perr) {
		s.printf("Error: %s\n", perr.Message)
		return
	}
	s.printf("Error: %s\n", err.Error())
}

func parseFloor(arg string) (FloorSpec, error) {
	levelPart, countsPart, ok := strings.Cut(arg, ":")
	if !ok {
		return FloorSpec{}, fmt.Errorf("invalid floor %q", arg)
	}
	level, err := strconv.Atoi(levelPart)
	if err != nil {
		return FloorSpec{}, fmt.Errorf("invalid floor level %q", levelPart)
	}
	counts := strings.Split(countsPart, "/")
	if len(counts) != len(SpotTypes) {
		return FloorSpec{}, fmt.Errorf("floor %d needs %d spot counts", level, len(SpotTypes))
	}
	spots := make(map[SpotType]int, len(SpotTypes))
	for i, st := range SpotTypes {
		n, err := strconv.Atoi(counts[i])
		if err != nil {
			return FloorSpec{}, fmt.Errorf("invalid %s count %q", st, counts[i])
		}
		spots[st] = n
	}
	return FloorSpec{Level: level, Spots: spots}, nil
}

func (s *Shell) handleCreateLot(ctx context.Context, parts []string) {
	span := trace.SpanFromContext(ctx)

	if len(parts) < 7 {
		span.AddEvent("invalid_arguments")
		s.printf("%s\n", createLotUsage)
		return
	}

	rates := make(map[SpotType]float64, len(SpotTypes))
	for i, st := range SpotTypes {
		rate, err := strconv.ParseFloat(parts[3+i], 64)
		if err != nil {
			span.AddEvent("invalid_rate")
			s.printf("Invalid %s rate: %s\n", st, parts[3+i])
			return
		}
		rates[st] = rate
	}

	var floors []FloorSpec
	for _, arg := range parts[6:] {
		floor, err := parseFloor(arg)
		if err != nil {
			span.RecordError(err)
			s.printf("%s\n", err.Error())
			return
		}
		floors = append(floors, floor)
	}

	lot, err := s.svc.CreateLot(ctx, LotSpec{
		Name:         parts[1],
		Currency:     parts[2],
		RatesPerHour: rates,
		Floors:       floors,
	})
	if err != nil {
		s.printError(err)
		return
	}

	total := 0
	for _, n := range lot.TotalSpots() {
		total += n
	}
	span.AddEvent("lot_created")
	s.printf("Created lot %s (%s) with %d spots\n", lot.ID, lot.Name, total)
}

func (s *Shell) handleCheckIn(ctx context.Context, parts []string) {
	span := trace.SpanFromContext(ctx)

	if len(parts) != 4 {
		span.AddEvent("invalid_arguments")
		s.printf("Usage: check_in <lot_id> <vehicle_type> <vehicle_number>\n")
		return
	}

	vehicleType, err := ParseVehicleType(parts[2])
	if err != nil {
		s.printError(err)
		return
	}

	result, err := s.svc.CheckIn(ctx, CheckInRequest{
		LotID:         parts[1],
		VehicleType:   vehicleType,
		VehicleNumber: parts[3],
	})
	if err != nil {
		if errors.Is(err, ErrLotFull) {
			s.printf("Sorry, parking lot is full\n")
			return
		}
		s.printError(err)
		return
	}

	s.printf("Ticket %s: spot %s (level %d, %s #%d)\n",
		result.Ticket.ID, result.Spot.ID, result.Spot.Level, result.Spot.Type, result.Spot.Number)
}

func (s *Shell) handleCheckOut(ctx context.Context, parts []string) {
	span := trace.SpanFromContext(ctx)

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.printf("Usage: check_out <ticket_id>\n")
		return
	}

	result, err := s.svc.CheckOut(ctx, parts[1], time.Time{})
	if err != nil {
		s.printError(err)
		return
	}

	fee := result.Fee
	s.printf("Ticket %s closed: %d min, %d h x %.2f = %.2f %s\n",
		result.Ticket.ID, fee.DurationMinutes, fee.BillableHours, fee.RatePerHour, fee.TotalFee, fee.Currency)
}

func (s *Shell) handleAvailability(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.printf("Usage: availability <lot_id>\n")
		return
	}

	avail, err := s.svc.Availability(ctx, parts[1])
	if err != nil {
		s.printError(err)
		return
	}

	s.printf("Type\tFree\tOccupied\tTotal\n")
	for _, st := range SpotTypes {
		s.printf("%s\t%d\t%d\t\t%d\n", st, avail.Free[st], avail.Occupied[st], avail.Total[st])
	}
}

func (s *Shell) handleTicket(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.printf("Usage: ticket <ticket_id>\n")
		return
	}

	t, err := s.svc.GetTicket(ctx, parts[1])
	if err != nil {
		s.printError(err)
		return
	}

	s.printf("Ticket %s: %s %s %s at %s, spot %s (%s)\n",
		t.ID, t.Status, t.VehicleType, t.VehicleNumber, t.CheckInAt.Format(time.RFC3339), t.SpotID, t.SpotType)
}

func (s *Shell) handleLots(ctx context.Context) {
	lots := s.svc.ListLots(ctx)
	if len(lots) == 0 {
		s.printf("No lots\n")
		return
	}
	for _, lot := range lots {
		s.printf("%s\t%s\t%s\n", lot.ID, lot.Name, lot.Currency)
	}
}
