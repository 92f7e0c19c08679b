package parking

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-parking/internal/logging"
)

func TestOccupancyReporterCollect(t *testing.T) {
	svc := newTestService(t, nil)
	lot := mustCreateLot(t, svc, floor(1, 2, 1, 0))
	mustCheckIn(t, svc, lot.ID, Car, "C1")

	reporter := NewOccupancyReporter(svc)

	assert.Equal(t, 2*len(SpotTypes), testutil.CollectAndCount(reporter, "smart_parking_spots"))

	expected := `
# HELP smart_parking_spots Number of parking spots per lot, spot type and state.
# TYPE smart_parking_spots gauge
smart_parking_spots{lot_id="` + lot.ID + `",spot_type="COMPACT",state="free"} 2
smart_parking_spots{lot_id="` + lot.ID + `",spot_type="COMPACT",state="occupied"} 0
smart_parking_spots{lot_id="` + lot.ID + `",spot_type="LARGE",state="free"} 0
smart_parking_spots{lot_id="` + lot.ID + `",spot_type="LARGE",state="occupied"} 0
smart_parking_spots{lot_id="` + lot.ID + `",spot_type="REGULAR",state="free"} 0
smart_parking_spots{lot_id="` + lot.ID + `",spot_type="REGULAR",state="occupied"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(reporter, strings.NewReader(expected), "smart_parking_spots"))
}

func TestOccupancyReporterNoLots(t *testing.T) {
	reporter := NewOccupancyReporter(newTestService(t, nil))

	assert.Equal(t, 0, testutil.CollectAndCount(reporter))
	assert.Equal(t, 0, reporter.Snapshot(context.Background()))
}

func TestOccupancySnapshotLogsEachLot(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stdout) })

	svc := newTestService(t, nil)
	mustCreateLot(t, svc, floor(1, 1, 0, 0))
	mustCreateLot(t, svc, floor(1, 0, 1, 0))

	n := NewOccupancyReporter(svc).Snapshot(context.Background())

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, strings.Count(buf.String(), `"event":"occupancy_snapshot"`))
}

func TestOccupancySchedule(t *testing.T) {
	reporter := NewOccupancyReporter(newTestService(t, nil))
	c := cron.New()

	id, err := reporter.Schedule(c, "@every 1m")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = reporter.Schedule(c, "not a schedule")
	assert.Error(t, err)
}
