package parking

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-process Repository. Its mutex only keeps individual
// reads and writes memory safe; read-then-mutate sequences on a lot are
// serialized by the LotGuard.
type MemoryStore struct {
	mu      sync.RWMutex
	lots    map[string]*Lot
	free    map[string]*FreeIndex
	spots   map[string]*Spot
	tickets map[string]*Ticket
	newID   func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lots:    make(map[string]*Lot),
		free:    make(map[string]*FreeIndex),
		spots:   make(map[string]*Spot),
		tickets: make(map[string]*Ticket),
		newID:   uuid.NewString,
	}
}

func (m *MemoryStore) CreateLot(spec LotSpec, createdAt time.Time) (Lot, error) {
	lotID := m.newID()

	floors := make([]FloorSpec, len(spec.Floors))
	for i, f := range spec.Floors {
		counts := make(map[SpotType]int, len(SpotTypes))
		for _, st := range SpotTypes {
			counts[st] = f.Spots[st]
		}
		floors[i] = FloorSpec{Level: f.Level, Spots: counts}
	}
	rates := make(map[SpotType]float64, len(spec.RatesPerHour))
	for st, r := range spec.RatesPerHour {
		rates[st] = r
	}

	lot := &Lot{
		ID:           lotID,
		Name:         strings.TrimSpace(spec.Name),
		Currency:     strings.TrimSpace(spec.Currency),
		RatesPerHour: rates,
		Floors:       floors,
		CreatedAt:    createdAt,
	}

	index := NewFreeIndex()
	spots := make([]*Spot, 0)
	for _, f := range floors {
		for _, st := range SpotTypes {
			for n := 1; n <= f.Spots[st]; n++ {
				spot := NewSpot(lotID, f.Level, st, n)
				if err := index.Put(spot); err != nil {
					return Lot{}, err
				}
				spots = append(spots, spot)
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lots[lotID] = lot
	m.free[lotID] = index
	for _, s := range spots {
		m.spots[s.ID] = s
	}
	return *lot, nil
}

func (m *MemoryStore) Lot(lotID string) (Lot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lot, ok := m.lots[lotID]
	if !ok {
		return Lot{}, newError(ErrNotFound, "lot %s not found", lotID)
	}
	return *lot, nil
}

func (m *MemoryStore) Lots() []Lot {
	m.mu.RLock()
	lots := make([]Lot, 0, len(m.lots))
	for _, lot := range m.lots {
		lots = append(lots, *lot)
	}
	m.mu.RUnlock()

	sort.Slice(lots, func(i, j int) bool {
		if lots[i].CreatedAt.Equal(lots[j].CreatedAt) {
			return lots[i].ID < lots[j].ID
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
	return lots
}

func (m *MemoryStore) Availability(lotID string) (Availability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lot, ok := m.lots[lotID]
	if !ok {
		return Availability{}, newError(ErrNotFound, "lot %s not found", lotID)
	}
	index := m.free[lotID]

	total := lot.TotalSpots()
	avail := Availability{
		Free:     make(map[SpotType]int, len(SpotTypes)),
		Occupied: make(map[SpotType]int, len(SpotTypes)),
		Total:    total,
	}
	for _, st := range SpotTypes {
		avail.Free[st] = index.Len(st)
		avail.Occupied[st] = total[st] - avail.Free[st]
	}
	return avail, nil
}

func (m *MemoryStore) Spot(spotID string) (Spot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	spot, ok := m.spots[spotID]
	if !ok {
		return Spot{}, newError(ErrNotFound, "spot %s not found", spotID)
	}
	return *spot, nil
}

func (m *MemoryStore) TakeFreeSpotID(lotID string, spotType SpotType) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	index, ok := m.free[lotID]
	if !ok {
		return "", false, newError(ErrNotFound, "lot %s not found", lotID)
	}
	id, ok := index.TakeSmallest(spotType)
	return id, ok, nil
}

func (m *MemoryStore) PutFreeSpotID(lotID, spotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	index, ok := m.free[lotID]
	if !ok {
		return newError(ErrNotFound, "lot %s not found", lotID)
	}
	spot, ok := m.spots[spotID]
	if !ok {
		return newError(ErrNotFound, "spot %s not found", spotID)
	}
	if spot.LotID != lotID {
		return newError(ErrInternal, "spot %s does not belong to lot %s", spotID, lotID)
	}
	return index.Put(spot)
}

func (m *MemoryStore) MarkOccupied(spotID string) (Spot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	spot, ok := m.spots[spotID]
	if !ok {
		return Spot{}, newError(ErrNotFound, "spot %s not found", spotID)
	}
	if err := spot.Occupy(); err != nil {
		return Spot{}, err
	}
	return *spot, nil
}

func (m *MemoryStore) MarkFree(lotID, spotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	spot, ok := m.spots[spotID]
	if !ok || spot.LotID != lotID {
		return newError(ErrNotFound, "spot %s not found in lot %s", spotID, lotID)
	}
	return spot.Release()
}

func (m *MemoryStore) CreateTicket(t Ticket) (Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lots[t.LotID]; !ok {
		return Ticket{}, newError(ErrNotFound, "lot %s not found", t.LotID)
	}
	t.ID = m.newID()
	t.Status = TicketOpen
	t.CheckOutAt = nil
	stored := t
	m.tickets[t.ID] = &stored
	return t, nil
}

func (m *MemoryStore) Ticket(ticketID string) (Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[ticketID]
	if !ok {
		return Ticket{}, newError(ErrNotFound, "ticket %s not found", ticketID)
	}
	return *t, nil
}

func (m *MemoryStore) CloseTicket(ticketID string, at time.Time) (Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[ticketID]
	if !ok {
		return Ticket{}, newError(ErrNotFound, "ticket %s not found", ticketID)
	}
	if err := t.Close(at); err != nil {
		return Ticket{}, err
	}
	return *t, nil
}
