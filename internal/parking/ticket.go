package parking

import "time"

type TicketStatus string

const (
	TicketOpen   TicketStatus = "OPEN"
	TicketClosed TicketStatus = "CLOSED"
)

type Ticket struct {
	ID            string       `json:"id"`
	LotID         string       `json:"lot_id"`
	VehicleType   VehicleType  `json:"vehicle_type"`
	VehicleNumber string       `json:"vehicle_number"`
	SpotID        string       `json:"spot_id"`
	SpotType      SpotType     `json:"spot_type_used"`
	CheckInAt     time.Time    `json:"check_in_at"`
	CheckOutAt    *time.Time   `json:"check_out_at,omitempty"`
	Status        TicketStatus `json:"status"`
}

// Close moves an OPEN ticket to CLOSED. It is the only transition a ticket has.
func (t *Ticket) Close(at time.Time) error {
	if t.Status != TicketOpen {
		return newError(ErrConflict, "ticket %s is already closed", t.ID)
	}
	if at.Before(t.CheckInAt) {
		return newError(ErrInvalidInput, "check-out time is before check-in time")
	}
	t.Status = TicketClosed
	t.CheckOutAt = &at
	return nil
}
