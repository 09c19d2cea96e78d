package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/timeutil"
)

var (
	// ErrNoSubscription is returned when an operation needs an existing
	// subscription and the vehicle has none.
	ErrNoSubscription = errors.New("vehicle has no subscription")

	// ErrInvalidLength is returned for a subscription length below one month.
	ErrInvalidLength = errors.New("subscription length must be at least one month")
)

// AlreadyActiveError is returned when a new subscription is requested
// while an active one exists. It carries the current expiry so the
// presentation layer can show it.
type AlreadyActiveError struct {
	Plate     string
	ExpiresAt time.Time
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("vehicle %s already has a subscription that ends on %s",
		e.Plate, e.ExpiresAt.Format("02/01/2006"))
}

// Subscription is a monthly parking pass for one plate. The end date is
// always derived from the start and the length; extending a subscription
// only grows the length, never moves the start.
type Subscription struct {
	Plate  string    `json:"plate"`
	Months int       `json:"months"`
	Start  time.Time `json:"start"`
}

func New(plate string, months int, start time.Time) *Subscription {
	return &Subscription{Plate: plate, Months: months, Start: start}
}

func (s *Subscription) End() time.Time {
	return timeutil.AddMonths(s.Start, s.Months)
}

// IsActive reports whether the subscription still runs at now.
func (s *Subscription) IsActive(now time.Time) bool {
	return now.Before(s.End())
}

// WasActiveAt reports whether the subscription covered the instant t.
// The start is inclusive and the end exclusive: a pass never covers a
// ticket issued before it began.
func (s *Subscription) WasActiveAt(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End())
}

// Extend lengthens the subscription by the given number of months.
func (s *Subscription) Extend(months int) {
	s.Months += months
}
