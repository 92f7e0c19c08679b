package parking

import "strings"

type VehicleType string

const (
	Motorcycle VehicleType = "MOTORCYCLE"
	Car        VehicleType = "CAR"
	Bus        VehicleType = "BUS"
)

var vehicleRank = map[VehicleType]int{
	Motorcycle: 0,
	Car:        1,
	Bus:        2,
}

func (v VehicleType) Valid() bool {
	_, ok := vehicleRank[v]
	return ok
}

func ParseVehicleType(s string) (VehicleType, error) {
	v := VehicleType(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", newError(ErrInvalidInput, "invalid vehicle type %q", s)
	}
	return v, nil
}

// IsCompatible reports whether a vehicle of type v may occupy a spot of type s.
func IsCompatible(v VehicleType, s SpotType) bool {
	vr, ok := vehicleRank[v]
	if !ok {
		return false
	}
	sr, ok := spotRank[s]
	if !ok {
		return false
	}
	return vr <= sr
}

// CompatibleSpotTypes returns the spot types a vehicle may use, smallest first.
func CompatibleSpotTypes(v VehicleType) []SpotType {
	var types []SpotType
	for _, s := range SpotTypes {
		if IsCompatible(v, s) {
			types = append(types, s)
		}
	}
	return types
}
