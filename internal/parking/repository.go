package parking

import "time"

type LotRepository interface {
	CreateLot(spec LotSpec, createdAt time.Time) (Lot, error)
	Lot(lotID string) (Lot, error)
	Lots() []Lot
	Availability(lotID string) (Availability, error)
}

// SpotRepository exposes the free-resource index and spot status. Callers
// mutating a lot's spots must hold that lot's guard.
type SpotRepository interface {
	Spot(spotID string) (Spot, error)
	TakeFreeSpotID(lotID string, spotType SpotType) (string, bool, error)
	PutFreeSpotID(lotID, spotID string) error
	MarkOccupied(spotID string) (Spot, error)
	MarkFree(lotID, spotID string) error
}

type TicketRepository interface {
	CreateTicket(t Ticket) (Ticket, error)
	Ticket(ticketID string) (Ticket, error)
	CloseTicket(ticketID string, at time.Time) (Ticket, error)
}

type Repository interface {
	LotRepository
	SpotRepository
	TicketRepository
}
