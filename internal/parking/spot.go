package parking

import (
	"fmt"
	"strings"
)

type SpotType string

const (
	Compact SpotType = "COMPACT"
	Regular SpotType = "REGULAR"
	Large   SpotType = "LARGE"
)

// SpotTypes lists every spot type in ascending rank order.
var SpotTypes = []SpotType{Compact, Regular, Large}

var spotRank = map[SpotType]int{
	Compact: 0,
	Regular: 1,
	Large:   2,
}

func (s SpotType) Valid() bool {
	_, ok := spotRank[s]
	return ok
}

func ParseSpotType(s string) (SpotType, error) {
	t := SpotType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", newError(ErrInvalidInput, "invalid spot type %q", s)
	}
	return t, nil
}

type SpotStatus string

const (
	SpotFree     SpotStatus = "FREE"
	SpotOccupied SpotStatus = "OCCUPIED"
)

type Spot struct {
	ID     string     `json:"id"`
	LotID  string     `json:"lot_id"`
	Level  int        `json:"level"`
	Number int        `json:"spot_number"`
	Type   SpotType   `json:"spot_type"`
	Status SpotStatus `json:"status"`
}

func SpotID(lotID string, level int, spotType SpotType, number int) string {
	return fmt.Sprintf("%s:%d:%s:%d", lotID, level, spotType, number)
}

func NewSpot(lotID string, level int, spotType SpotType, number int) *Spot {
	return &Spot{
		ID:     SpotID(lotID, level, spotType, number),
		LotID:  lotID,
		Level:  level,
		Number: number,
		Type:   spotType,
		Status: SpotFree,
	}
}

func (s *Spot) Occupy() error {
	if s.Status != SpotFree {
		return newError(ErrConflict, "spot %s is not free", s.ID)
	}
	s.Status = SpotOccupied
	return nil
}

func (s *Spot) Release() error {
	if s.Status != SpotOccupied {
		return newError(ErrInternal, "spot %s is already free", s.ID)
	}
	s.Status = SpotFree
	return nil
}

// spotBefore orders spots by level, then by number within the level.
func spotBefore(a, b spotKey) bool {
	if a.level != b.level {
		return a.level < b.level
	}
	return a.number < b.number
}
