package parking

import (
	"math"
	"strings"
	"time"
)

type FloorSpec struct {
	Level int              `json:"level"`
	Spots map[SpotType]int `json:"spots"`
}

// LotSpec describes a lot to be created. Floors and rates are fixed for the
// life of the lot.
type LotSpec struct {
	Name         string               `json:"name"`
	Currency     string               `json:"currency"`
	RatesPerHour map[SpotType]float64 `json:"rates_per_hour"`
	Floors       []FloorSpec          `json:"floors"`
}

func (s LotSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return newError(ErrInvalidInput, "name is required")
	}
	if strings.TrimSpace(s.Currency) == "" {
		return newError(ErrInvalidInput, "currency is required")
	}

	for st := range s.RatesPerHour {
		if !st.Valid() {
			return newError(ErrInvalidInput, "rates_per_hour has unknown spot type %q", st)
		}
	}
	for _, st := range SpotTypes {
		rate, ok := s.RatesPerHour[st]
		if !ok {
			return newError(ErrInvalidInput, "rates_per_hour.%s is required", st)
		}
		if !validRate(rate) {
			return newError(ErrInvalidInput, "rates_per_hour.%s must be a finite number >= 0", st)
		}
	}

	if len(s.Floors) == 0 {
		return newError(ErrInvalidInput, "floors must be a non-empty list")
	}
	seen := make(map[int]bool, len(s.Floors))
	for _, f := range s.Floors {
		if f.Level <= 0 {
			return newError(ErrInvalidInput, "floor level must be a positive integer, got %d", f.Level)
		}
		if seen[f.Level] {
			return newError(ErrInvalidInput, "floor level %d is not unique", f.Level)
		}
		seen[f.Level] = true

		for st, n := range f.Spots {
			if !st.Valid() {
				return newError(ErrInvalidInput, "floor %d has unknown spot type %q", f.Level, st)
			}
			if n < 0 {
				return newError(ErrInvalidInput, "floor %d spots.%s must be >= 0", f.Level, st)
			}
		}
	}
	return nil
}

func validRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate >= 0
}

type Lot struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Currency     string               `json:"currency"`
	RatesPerHour map[SpotType]float64 `json:"rates_per_hour"`
	Floors       []FloorSpec          `json:"floors"`
	CreatedAt    time.Time            `json:"created_at"`
}

// TotalSpots sums the configured spot counts of every floor per type.
func (l *Lot) TotalSpots() map[SpotType]int {
	total := make(map[SpotType]int, len(SpotTypes))
	for _, st := range SpotTypes {
		total[st] = 0
	}
	for _, f := range l.Floors {
		for _, st := range SpotTypes {
			total[st] += f.Spots[st]
		}
	}
	return total
}

type Availability struct {
	Free     map[SpotType]int `json:"free"`
	Occupied map[SpotType]int `json:"occupied"`
	Total    map[SpotType]int `json:"total"`
}
