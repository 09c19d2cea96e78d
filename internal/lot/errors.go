package lot

import (
	"errors"
	"fmt"
)

var (
	// ErrLotFull is returned for a check-in with zero available spaces.
	ErrLotFull = errors.New("there are no available spaces in the parking lot")

	// ErrInvalidLayout is returned when a lot is built with a non-positive
	// floor count or spaces per floor.
	ErrInvalidLayout = errors.New("number of floors and spaces per floor must be positive")

	// ErrInvalidCapacity is returned when a lot is restored with a
	// non-positive total capacity.
	ErrInvalidCapacity = errors.New("total spaces must be positive")
)

// DuplicateEntryError is returned when a plate that is already inside
// checks in again, or when a known plate is registered a second time.
type DuplicateEntryError struct {
	Plate string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("vehicle with plate %s is already in the parking lot", e.Plate)
}

// UnknownVehicleError is returned when an operation names a plate the lot
// cannot serve: a check-out for a plate not inside, or a subscription
// operation for a plate never seen.
type UnknownVehicleError struct {
	Plate string
}

func (e *UnknownVehicleError) Error() string {
	return fmt.Sprintf("vehicle with plate %s was not found", e.Plate)
}
