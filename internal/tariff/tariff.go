package tariff

import (
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/subscription"
	"github.com/toruke/2tm1-ParkEase/internal/ticket"
)

// Config holds the facility's prices in whole currency units. All three
// must be positive.
type Config struct {
	PerHour  int64
	PerDay   int64
	PerMonth int64
}

func DefaultConfig() Config {
	return Config{PerHour: 2, PerDay: 12, PerMonth: 100}
}

// Calculator prices stays and subscriptions against one tariff Config.
// It holds no mutable state.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// switchPoint is the hour count beyond which accrued hourly charges are
// folded into an additional full day at the day rate.
func (c *Calculator) switchPoint() int64 {
	return c.cfg.PerDay / c.cfg.PerHour
}

// AmountDue prices the stay started by tk, evaluated at now. A
// subscription that covered the arrival waives the whole stay, even when
// it has lapsed while the vehicle was still parked. Billing granularity
// is the full hour; partial hours are free.
func (c *Calculator) AmountDue(tk ticket.Ticket, sub *subscription.Subscription, now time.Time) int64 {
	if sub != nil && sub.WasActiveAt(tk.Arrival) {
		return 0
	}

	parked := tk.ParkedTime(now)
	if parked < 0 {
		parked = 0
	}
	days := int64(parked / (24 * time.Hour))
	hours := int64((parked % (24 * time.Hour)) / time.Hour)

	if hours > c.switchPoint() {
		hours -= c.switchPoint()
		days++
	}

	return days*c.cfg.PerDay + hours*c.cfg.PerHour
}

// SubscriptionPrice is the price of buying or extending a pass by the
// given number of months. It is returned for display only; no ledger
// exists.
func (c *Calculator) SubscriptionPrice(months int) int64 {
	return int64(months) * c.cfg.PerMonth
}
