package vehicle

import (
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/subscription"
	"github.com/toruke/2tm1-ParkEase/internal/ticket"
)

// Vehicle aggregates everything known about one plate: its full ticket
// history (append-only, chronological) and at most one subscription. The
// same instance follows the plate for its whole lifetime; the lot moves
// it between inside and outside, it is never duplicated.
type Vehicle struct {
	Plate   string
	Tickets []ticket.Ticket
	Sub     *subscription.Subscription
}

func New(plate string) *Vehicle {
	return &Vehicle{Plate: plate}
}

// AddTicket issues a ticket for an entry at now.
func (v *Vehicle) AddTicket(now time.Time) {
	v.Tickets = append(v.Tickets, ticket.New(v.Plate, now))
}

// LastTicket returns the most recent ticket, if any.
func (v *Vehicle) LastTicket() (ticket.Ticket, bool) {
	if len(v.Tickets) == 0 {
		return ticket.Ticket{}, false
	}
	return v.Tickets[len(v.Tickets)-1], true
}

// Subscribe creates a new subscription starting at now. An expired
// subscription is overwritten; an active one is a conflict and the
// returned error carries its expiry. There is no implicit extension.
func (v *Vehicle) Subscribe(months int, now time.Time) (*subscription.Subscription, error) {
	if months < 1 {
		return nil, subscription.ErrInvalidLength
	}
	if v.Sub != nil && v.Sub.IsActive(now) {
		return nil, &subscription.AlreadyActiveError{Plate: v.Plate, ExpiresAt: v.Sub.End()}
	}
	v.Sub = subscription.New(v.Plate, months, now)
	return v.Sub, nil
}

// ExtendSubscription lengthens the current subscription.
func (v *Vehicle) ExtendSubscription(months int) error {
	if months < 1 {
		return subscription.ErrInvalidLength
	}
	if v.Sub == nil {
		return subscription.ErrNoSubscription
	}
	v.Sub.Extend(months)
	return nil
}
