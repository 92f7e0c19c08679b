package parking

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLotSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LotSpec)
		valid  bool
	}{
		{"valid", func(*LotSpec) {}, true},
		{"blank name", func(s *LotSpec) { s.Name = "  " }, false},
		{"blank currency", func(s *LotSpec) { s.Currency = "" }, false},
		{"missing rate", func(s *LotSpec) { delete(s.RatesPerHour, Large) }, false},
		{"negative rate", func(s *LotSpec) { s.RatesPerHour[Compact] = -1 }, false},
		{"nan rate", func(s *LotSpec) { s.RatesPerHour[Regular] = math.NaN() }, false},
		{"infinite rate", func(s *LotSpec) { s.RatesPerHour[Regular] = math.Inf(1) }, false},
		{"unknown rate key", func(s *LotSpec) { s.RatesPerHour["HUGE"] = 10 }, false},
		{"zero rate", func(s *LotSpec) { s.RatesPerHour[Compact] = 0 }, true},
		{"no floors", func(s *LotSpec) { s.Floors = nil }, false},
		{"zero level", func(s *LotSpec) { s.Floors[0].Level = 0 }, false},
		{"duplicate level", func(s *LotSpec) { s.Floors = append(s.Floors, floor(1, 1, 1, 1)) }, false},
		{"negative count", func(s *LotSpec) { s.Floors[0].Spots[Regular] = -2 }, false},
		{"unknown spot key", func(s *LotSpec) { s.Floors[0].Spots["HUGE"] = 1 }, false},
		{"empty floor", func(s *LotSpec) { s.Floors[0].Spots = map[SpotType]int{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := lotSpec(floor(1, 2, 2, 1))
			tt.mutate(&spec)

			err := spec.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidInput), "expected invalid input, got %v", err)
		})
	}
}

func TestLotTotalSpots(t *testing.T) {
	lot := Lot{Floors: []FloorSpec{floor(1, 2, 3, 0), floor(2, 0, 1, 4)}}

	assert.Equal(t, map[SpotType]int{Compact: 2, Regular: 4, Large: 4}, lot.TotalSpots())
}
