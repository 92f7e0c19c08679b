package parking

import "time"

type FeeBreakdown struct {
	DurationMinutes int64   `json:"duration_minutes"`
	BillableHours   int64   `json:"billable_hours"`
	RatePerHour     float64 `json:"rate_per_hour"`
	TotalFee        float64 `json:"total_fee"`
	Currency        string  `json:"currency"`
}

// CalculateFee bills every started hour of the stay at the rate of the spot
// type actually used. A zero length stay is free; any positive stay is at
// least one hour.
func CalculateFee(lot Lot, spotType SpotType, checkInAt, checkOutAt time.Time) (FeeBreakdown, error) {
	if checkOutAt.Before(checkInAt) {
		return FeeBreakdown{}, newError(ErrInvalidInput, "check-out time is before check-in time")
	}

	elapsed := checkOutAt.Sub(checkInAt)

	minutes := int64(elapsed / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	var hours int64
	if elapsed > 0 {
		hours = int64((elapsed + time.Hour - 1) / time.Hour)
		if hours < 1 {
			hours = 1
		}
	}

	rate, ok := lot.RatesPerHour[spotType]
	if !ok || !validRate(rate) {
		return FeeBreakdown{}, newError(ErrInternal, "rate not configured for spot type %s", spotType)
	}

	return FeeBreakdown{
		DurationMinutes: minutes,
		BillableHours:   hours,
		RatePerHour:     rate,
		TotalFee:        float64(hours) * rate,
		Currency:        lot.Currency,
	}, nil
}
