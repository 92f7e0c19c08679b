package parking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFee(t *testing.T) {
	lot := Lot{Currency: "INR", RatesPerHour: testRates()}
	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		spotType SpotType
		stay     time.Duration
		minutes  int64
		hours    int64
		fee      float64
	}{
		{"zero stay is free", Regular, 0, 0, 0, 0},
		{"one second is one hour", Regular, time.Second, 0, 1, 40},
		{"exactly one hour", Regular, time.Hour, 60, 1, 40},
		{"sixty one minutes on large", Large, 61 * time.Minute, 61, 2, 160},
		{"partial minutes are floored", Compact, 90*time.Minute + 59*time.Second, 90, 2, 40},
		{"full day", Compact, 24 * time.Hour, 1440, 24, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := CalculateFee(lot, tt.spotType, in, in.Add(tt.stay))
			require.NoError(t, err)

			assert.Equal(t, tt.minutes, fee.DurationMinutes)
			assert.Equal(t, tt.hours, fee.BillableHours)
			assert.Equal(t, lot.RatesPerHour[tt.spotType], fee.RatePerHour)
			assert.Equal(t, tt.fee, fee.TotalFee)
			assert.Equal(t, "INR", fee.Currency)
		})
	}
}

func TestCalculateFeeBillsStartedHours(t *testing.T) {
	lot := Lot{Currency: "INR", RatesPerHour: testRates()}
	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for m := 1; m <= 300; m++ {
		fee, err := CalculateFee(lot, Regular, in, in.Add(time.Duration(m)*time.Minute))
		require.NoError(t, err)

		expected := int64((m + 59) / 60)
		assert.Equal(t, expected, fee.BillableHours, "minutes=%d", m)
		assert.Equal(t, float64(expected)*40, fee.TotalFee, "minutes=%d", m)
	}
}

func TestCalculateFeeRejectsCheckOutBeforeCheckIn(t *testing.T) {
	lot := Lot{Currency: "INR", RatesPerHour: testRates()}
	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	_, err := CalculateFee(lot, Regular, in, in.Add(-time.Minute))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCalculateFeeMissingRate(t *testing.T) {
	lot := Lot{Currency: "INR", RatesPerHour: map[SpotType]float64{Compact: 10}}
	in := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	_, err := CalculateFee(lot, Large, in, in.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrInternal))
}
