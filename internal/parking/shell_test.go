package parking

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShell(t *testing.T, svc *InstrumentedService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	shell := NewShell(svc, NewNoopTelemetryProvider(), strings.NewReader(strings.Join(lines, "\n")), &out)
	shell.Run(context.Background())
	return out.String()
}

func TestShellCreateLot(t *testing.T) {
	svc := newInstrumentedTestService(t, nil)

	out := runShell(t, svc, "create_lot Central INR 20 40 80 1:2/3/1 2:0/2/0")

	assert.Contains(t, out, "(Central) with 8 spots")
	lots := svc.ListLots(context.Background())
	require.Len(t, lots, 1)
	assert.Equal(t, "INR", lots[0].Currency)
}

func TestShellCreateLotErrors(t *testing.T) {
	svc := newInstrumentedTestService(t, nil)

	out := runShell(t, svc,
		"create_lot Central INR 20 40",
		"create_lot Central INR 20 x 80 1:1/1/1",
		"create_lot Central INR 20 40 80 1-1/1/1",
		"create_lot Central INR 20 40 80 1:1/1",
		"create_lot Central INR 20 40 -1 1:1/1/1",
	)

	assert.Contains(t, out, "Usage: create_lot")
	assert.Contains(t, out, "Invalid REGULAR rate: x")
	assert.Contains(t, out, `invalid floor "1-1/1/1"`)
	assert.Contains(t, out, "floor 1 needs 3 spot counts")
	assert.Contains(t, out, "Error: rates_per_hour.LARGE must be a finite number >= 0")
	assert.Empty(t, svc.ListLots(context.Background()))
}

func TestShellCheckInAndOut(t *testing.T) {
	svc := newInstrumentedTestService(t, nil)
	lot, err := svc.CreateLot(context.Background(), lotSpec(floor(1, 0, 1, 0)))
	require.NoError(t, err)

	out := runShell(t, svc,
		fmt.Sprintf("check_in %s car KA-01", lot.ID),
		fmt.Sprintf("check_in %s car KA-02", lot.ID),
		fmt.Sprintf("availability %s", lot.ID),
	)

	assert.Contains(t, out, fmt.Sprintf("spot %s (level 1, REGULAR #1)", SpotID(lot.ID, 1, Regular, 1)))
	assert.Contains(t, out, "Sorry, parking lot is full")
	assert.Contains(t, out, "REGULAR\t0\t1\t\t1")

	avail, err := svc.Availability(context.Background(), lot.ID)
	require.NoError(t, err)
	require.Equal(t, 1, avail.Occupied[Regular])

	var ticketID string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Ticket ") {
			ticketID = strings.TrimSuffix(strings.Fields(line)[1], ":")
			break
		}
	}
	require.NotEmpty(t, ticketID)

	out = runShell(t, svc,
		"ticket "+ticketID,
		"check_out "+ticketID,
		"check_out "+ticketID,
	)

	assert.Contains(t, out, fmt.Sprintf("Ticket %s: OPEN CAR KA-01", ticketID))
	assert.Contains(t, out, fmt.Sprintf("Ticket %s closed: 0 min, 0 h x 40.00 = 0.00 INR", ticketID))
	assert.Contains(t, out, fmt.Sprintf("Error: ticket %s is already closed", ticketID))
}

func TestShellErrors(t *testing.T) {
	svc := newInstrumentedTestService(t, nil)

	out := runShell(t, svc,
		"lots",
		"check_in missing truck X",
		"check_in missing car X",
		"check_out",
		"ticket missing",
		"availability missing",
		"fly",
		"",
	)

	assert.Contains(t, out, "No lots")
	assert.Contains(t, out, `Error: invalid vehicle type "truck"`)
	assert.Contains(t, out, "Error: lot missing not found")
	assert.Contains(t, out, "Usage: check_out <ticket_id>")
	assert.Contains(t, out, "Error: ticket missing not found")
	assert.Contains(t, out, "Unknown command: fly")
}
