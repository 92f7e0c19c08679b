package parking

import "github.com/google/btree"

const freeIndexDegree = 16

type spotKey struct {
	level  int
	number int
	id     string
}

func keyOf(s *Spot) spotKey {
	return spotKey{level: s.Level, number: s.Number, id: s.ID}
}

// FreeIndex holds the free spots of one lot, per spot type, ordered by
// (level, number). It does no locking of its own.
type FreeIndex struct {
	trees map[SpotType]*btree.BTreeG[spotKey]
}

func NewFreeIndex() *FreeIndex {
	trees := make(map[SpotType]*btree.BTreeG[spotKey], len(SpotTypes))
	for _, st := range SpotTypes {
		trees[st] = btree.NewG(freeIndexDegree, spotBefore)
	}
	return &FreeIndex{trees: trees}
}

// TakeSmallest removes and returns the lowest ordered free spot id of the
// given type. ok is false when none is free.
func (ix *FreeIndex) TakeSmallest(spotType SpotType) (string, bool) {
	tree, found := ix.trees[spotType]
	if !found {
		return "", false
	}
	key, ok := tree.DeleteMin()
	if !ok {
		return "", false
	}
	return key.id, true
}

// Put inserts a spot at its ordered position. Inserting a spot that is
// already present is an invariant violation.
func (ix *FreeIndex) Put(s *Spot) error {
	tree, found := ix.trees[s.Type]
	if !found {
		return newError(ErrInternal, "spot %s has unknown type %q", s.ID, s.Type)
	}
	key := keyOf(s)
	if tree.Has(key) {
		return newError(ErrInternal, "spot %s is already in the free index", s.ID)
	}
	tree.ReplaceOrInsert(key)
	return nil
}

func (ix *FreeIndex) Len(spotType SpotType) int {
	tree, found := ix.trees[spotType]
	if !found {
		return 0
	}
	return tree.Len()
}

// IDs returns the free spot ids of a type in allocation order.
func (ix *FreeIndex) IDs(spotType SpotType) []string {
	tree, found := ix.trees[spotType]
	if !found {
		return nil
	}
	ids := make([]string, 0, tree.Len())
	tree.Ascend(func(key spotKey) bool {
		ids = append(ids, key.id)
		return true
	})
	return ids
}
