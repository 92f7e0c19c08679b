package parking

// Allocator implements smallest-fit allocation over a lot's free index.
// Callers must hold the lot's guard; the allocator does no locking.
type Allocator struct {
	lots  LotRepository
	spots SpotRepository
}

func NewAllocator(lots LotRepository, spots SpotRepository) *Allocator {
	return &Allocator{lots: lots, spots: spots}
}

// Allocate takes the lowest (level, number) free spot of the smallest
// compatible type and marks it occupied.
func (a *Allocator) Allocate(lotID string, vehicleType VehicleType) (Spot, error) {
	if _, err := a.lots.Lot(lotID); err != nil {
		return Spot{}, err
	}
	if !vehicleType.Valid() {
		return Spot{}, newError(ErrInvalidInput, "invalid vehicle type %q", vehicleType)
	}

	for _, st := range CompatibleSpotTypes(vehicleType) {
		spotID, ok, err := a.spots.TakeFreeSpotID(lotID, st)
		if err != nil {
			return Spot{}, err
		}
		if !ok {
			continue
		}
		return a.spots.MarkOccupied(spotID)
	}

	return Spot{}, newError(ErrLotFull, "parking lot is full for vehicle type %s", vehicleType)
}

// Release frees an occupied spot and returns it to the free index.
func (a *Allocator) Release(lotID, spotID string) error {
	if _, err := a.lots.Lot(lotID); err != nil {
		return err
	}
	if err := a.spots.MarkFree(lotID, spotID); err != nil {
		return err
	}
	return a.spots.PutFreeSpotID(lotID, spotID)
}
