package parking

import (
	"context"
	"strings"
	"time"
)

const DefaultCurrency = "INR"

type CheckInRequest struct {
	LotID         string
	VehicleType   VehicleType
	VehicleNumber string
	// At is the check-in time; the zero value means now.
	At time.Time
}

type CheckInResult struct {
	Ticket Ticket `json:"ticket"`
	Spot   Spot   `json:"spot"`
}

type CheckOutResult struct {
	Ticket Ticket       `json:"ticket"`
	Fee    FeeBreakdown `json:"fee"`
}

// Service runs the ticket lifecycle: check-in allocates a spot and opens a
// ticket, check-out closes it, frees the spot and prices the stay. Both run
// under the lot's guard.
type Service struct {
	repo            Repository
	allocator       *Allocator
	guard           *LotGuard
	now             func() time.Time
	defaultCurrency string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithDefaultCurrency(currency string) Option {
	return func(s *Service) {
		if currency != "" {
			s.defaultCurrency = currency
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		allocator:       NewAllocator(repo, repo),
		guard:           NewLotGuard(),
		now:             time.Now,
		defaultCurrency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateLot(ctx context.Context, spec LotSpec) (Lot, error) {
	if strings.TrimSpace(spec.Currency) == "" {
		spec.Currency = s.defaultCurrency
	}
	if err := spec.Validate(); err != nil {
		return Lot{}, err
	}

	lot, err := s.repo.CreateLot(spec, s.now().UTC())
	if err != nil {
		return Lot{}, err
	}
	s.guard.Register(lot.ID)
	return lot, nil
}

func (s *Service) GetLot(ctx context.Context, lotID string) (Lot, error) {
	return s.repo.Lot(lotID)
}

func (s *Service) ListLots(ctx context.Context) []Lot {
	return s.repo.Lots()
}

// Availability reads the free index without taking the lot's guard, so it
// may observe a check-in or check-out in flight.
func (s *Service) Availability(ctx context.Context, lotID string) (Availability, error) {
	return s.repo.Availability(lotID)
}

func (s *Service) GetTicket(ctx context.Context, ticketID string) (Ticket, error) {
	return s.repo.Ticket(ticketID)
}

func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (CheckInResult, error) {
	if _, err := s.repo.Lot(req.LotID); err != nil {
		return CheckInResult{}, err
	}
	vehicleNumber := strings.TrimSpace(req.VehicleNumber)
	if vehicleNumber == "" {
		return CheckInResult{}, newError(ErrInvalidInput, "vehicle number is required")
	}
	if !req.VehicleType.Valid() {
		return CheckInResult{}, newError(ErrInvalidInput, "invalid vehicle type %q", req.VehicleType)
	}

	at := req.At
	if at.IsZero() {
		at = s.now()
	}

	var result CheckInResult
	err := s.guard.WithLock(ctx, req.LotID, func() error {
		spot, err := s.allocator.Allocate(req.LotID, req.VehicleType)
		if err != nil {
			return err
		}
		if spot.Status != SpotOccupied {
			return newError(ErrInternal, "spot allocation failed")
		}

		ticket, err := s.repo.CreateTicket(Ticket{
			LotID:         req.LotID,
			VehicleType:   req.VehicleType,
			VehicleNumber: vehicleNumber,
			SpotID:        spot.ID,
			SpotType:      spot.Type,
			CheckInAt:     at,
		})
		if err != nil {
			if rerr := s.allocator.Release(req.LotID, spot.ID); rerr != nil {
				return rerr
			}
			return err
		}

		result = CheckInResult{Ticket: ticket, Spot: spot}
		return nil
	})
	if err != nil {
		return CheckInResult{}, err
	}
	return result, nil
}

// CheckOut closes an open ticket at the given time (zero means now). The fee
// is priced before anything is mutated, so a failed check-out leaves the
// ticket and spot as they were.
func (s *Service) CheckOut(ctx context.Context, ticketID string, at time.Time) (CheckOutResult, error) {
	ticket, err := s.repo.Ticket(ticketID)
	if err != nil {
		return CheckOutResult{}, err
	}
	if ticket.Status != TicketOpen {
		return CheckOutResult{}, newError(ErrConflict, "ticket %s is already closed", ticketID)
	}
	lot, err := s.repo.Lot(ticket.LotID)
	if err != nil {
		return CheckOutResult{}, err
	}

	var result CheckOutResult
	err = s.guard.WithLock(ctx, ticket.LotID, func() error {
		current, err := s.repo.Ticket(ticketID)
		if err != nil {
			return err
		}
		if current.Status != TicketOpen {
			return newError(ErrConflict, "ticket %s is already closed", ticketID)
		}

		checkOutAt := at
		if checkOutAt.IsZero() {
			checkOutAt = s.now()
		}

		fee, err := CalculateFee(lot, current.SpotType, current.CheckInAt, checkOutAt)
		if err != nil {
			return err
		}

		closed, err := s.repo.CloseTicket(ticketID, checkOutAt)
		if err != nil {
			return err
		}
		if err := s.allocator.Release(closed.LotID, closed.SpotID); err != nil {
			return err
		}

		result = CheckOutResult{Ticket: closed, Fee: fee}
		return nil
	})
	if err != nil {
		return CheckOutResult{}, err
	}
	return result, nil
}
