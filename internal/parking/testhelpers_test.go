package parking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testRates() map[SpotType]float64 {
	return map[SpotType]float64{Compact: 20, Regular: 40, Large: 80}
}

func lotSpec(floors ...FloorSpec) LotSpec {
	return LotSpec{
		Name:         "Central",
		Currency:     "INR",
		RatesPerHour: testRates(),
		Floors:       floors,
	}
}

func floor(level, compact, regular, large int) FloorSpec {
	return FloorSpec{Level: level, Spots: map[SpotType]int{Compact: compact, Regular: regular, Large: large}}
}

func newTestService(t *testing.T, clock *fakeClock) *Service {
	t.Helper()
	if clock == nil {
		clock = newFakeClock()
	}
	return NewService(NewMemoryStore(), WithClock(clock.Now))
}

func mustCreateLot(t *testing.T, svc *Service, floors ...FloorSpec) Lot {
	t.Helper()
	lot, err := svc.CreateLot(context.Background(), lotSpec(floors...))
	require.NoError(t, err)
	return lot
}

func mustCheckIn(t *testing.T, svc *Service, lotID string, vt VehicleType, number string) CheckInResult {
	t.Helper()
	res, err := svc.CheckIn(context.Background(), CheckInRequest{LotID: lotID, VehicleType: vt, VehicleNumber: number})
	require.NoError(t, err)
	return res
}
