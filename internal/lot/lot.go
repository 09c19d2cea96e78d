package lot

import (
	"context"
	"sort"
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/subscription"
	"github.com/toruke/2tm1-ParkEase/internal/tariff"
	"github.com/toruke/2tm1-ParkEase/internal/vehicle"
)

// DefaultAlertThreshold is the remaining-capacity ratio at or below which
// a low-capacity alert is emitted after a check-in.
const DefaultAlertThreshold = 0.1

// Location says on which side of the barrier a known plate currently is.
type Location int

const (
	Inside Location = iota
	Outside
)

func (l Location) String() string {
	if l == Inside {
		return "inside"
	}
	return "outside"
}

// Notifier receives low-capacity alerts. Emission is a side effect only;
// failures must not fail the check-in that triggered them.
type Notifier interface {
	LowCapacity(ctx context.Context, available, total int)
}

// Receipt is what a check-out hands back for display: how long the last
// stay took, what it costs, and a snapshot of the subscription if one
// exists.
type Receipt struct {
	Plate    string
	Duration time.Duration
	Amount   int64
	Sub      *subscription.Subscription
}

// Lot is the facility: a fixed capacity plus every vehicle it has ever
// seen, each either inside or outside. Vehicles are keyed by plate; a
// plate is known to exactly one location at a time.
//
// A Lot is not safe for concurrent use; callers that serve multiple
// operators must serialize access themselves.
type Lot struct {
	total     int
	vehicles  map[string]*vehicle.Vehicle
	location  map[string]Location
	inside    int
	calc      *tariff.Calculator
	notifier  Notifier
	threshold float64
}

// New builds an empty lot from its floor layout.
func New(floors, spacesPerFloor int, calc *tariff.Calculator, n Notifier) (*Lot, error) {
	if floors <= 0 || spacesPerFloor <= 0 {
		return nil, ErrInvalidLayout
	}
	return newLot(floors*spacesPerFloor, calc, n), nil
}

// Restore rebuilds a lot from persisted state.
func Restore(totalSpaces int, inside, outside []*vehicle.Vehicle, calc *tariff.Calculator, n Notifier) (*Lot, error) {
	if totalSpaces <= 0 {
		return nil, ErrInvalidCapacity
	}
	l := newLot(totalSpaces, calc, n)
	for _, v := range inside {
		l.vehicles[v.Plate] = v
		l.location[v.Plate] = Inside
		l.inside++
	}
	for _, v := range outside {
		l.vehicles[v.Plate] = v
		l.location[v.Plate] = Outside
	}
	return l, nil
}

func newLot(total int, calc *tariff.Calculator, n Notifier) *Lot {
	return &Lot{
		total:     total,
		vehicles:  make(map[string]*vehicle.Vehicle),
		location:  make(map[string]Location),
		calc:      calc,
		notifier:  n,
		threshold: DefaultAlertThreshold,
	}
}

// SetAlertThreshold overrides the low-capacity alert ratio.
func (l *Lot) SetAlertThreshold(ratio float64) {
	l.threshold = ratio
}

func (l *Lot) TotalSpaces() int {
	return l.total
}

func (l *Lot) AvailableSpaces() int {
	return l.total - l.inside
}

func (l *Lot) InsideCount() int {
	return l.inside
}

// CheckIn lets the plate enter at now. A returning plate reuses its
// existing vehicle, keeping history and subscription. Every entry gets a
// ticket; the tariff calculator decides later whether a subscription
// waives the stay. The failed cases leave the lot untouched.
func (l *Lot) CheckIn(ctx context.Context, plate string, now time.Time) error {
	if l.AvailableSpaces() == 0 {
		return ErrLotFull
	}
	if loc, ok := l.location[plate]; ok && loc == Inside {
		return &DuplicateEntryError{Plate: plate}
	}

	v, ok := l.vehicles[plate]
	if !ok {
		v = vehicle.New(plate)
		l.vehicles[plate] = v
	}
	v.AddTicket(now)
	l.location[plate] = Inside
	l.inside++

	if l.notifier != nil && float64(l.AvailableSpaces())/float64(l.total) <= l.threshold {
		l.notifier.LowCapacity(ctx, l.AvailableSpaces(), l.total)
	}
	return nil
}

// CheckOut moves the plate outside and prices its last stay at now.
func (l *Lot) CheckOut(plate string, now time.Time) (*Receipt, error) {
	if loc, ok := l.location[plate]; !ok || loc != Inside {
		return nil, &UnknownVehicleError{Plate: plate}
	}

	v := l.vehicles[plate]
	l.location[plate] = Outside
	l.inside--

	r := &Receipt{Plate: plate}
	if tk, ok := v.LastTicket(); ok {
		r.Duration = tk.ParkedTime(now)
		r.Amount = l.calc.AmountDue(tk, v.Sub, now)
	}
	if v.Sub != nil {
		snapshot := *v.Sub
		r.Sub = &snapshot
	}
	return r, nil
}

// RegisterVehicle creates a vehicle directly outside the lot, so a plate
// can hold a subscription before it ever physically enters. No ticket is
// issued.
func (l *Lot) RegisterVehicle(plate string) (*vehicle.Vehicle, error) {
	if _, ok := l.vehicles[plate]; ok {
		return nil, &DuplicateEntryError{Plate: plate}
	}
	v := vehicle.New(plate)
	l.vehicles[plate] = v
	l.location[plate] = Outside
	return v, nil
}

// Subscribe creates a subscription for a known plate and returns it with
// its price.
func (l *Lot) Subscribe(plate string, months int, now time.Time) (*subscription.Subscription, int64, error) {
	v, ok := l.vehicles[plate]
	if !ok {
		return nil, 0, &UnknownVehicleError{Plate: plate}
	}
	sub, err := v.Subscribe(months, now)
	if err != nil {
		return nil, 0, err
	}
	return sub, l.calc.SubscriptionPrice(months), nil
}

// ExtendSubscription lengthens a known plate's subscription and returns
// the incremental price.
func (l *Lot) ExtendSubscription(plate string, months int) (int64, error) {
	v, ok := l.vehicles[plate]
	if !ok {
		return 0, &UnknownVehicleError{Plate: plate}
	}
	if err := v.ExtendSubscription(months); err != nil {
		return 0, err
	}
	return l.calc.SubscriptionPrice(months), nil
}

// Subscription returns the plate's subscription for inspection.
func (l *Lot) Subscription(plate string) (*subscription.Subscription, error) {
	v, ok := l.vehicles[plate]
	if !ok {
		return nil, &UnknownVehicleError{Plate: plate}
	}
	if v.Sub == nil {
		return nil, subscription.ErrNoSubscription
	}
	return v.Sub, nil
}

// Vehicles returns the vehicles at the given location, ordered by plate
// so serialization and reports are deterministic.
func (l *Lot) Vehicles(loc Location) []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, 0, len(l.vehicles))
	for plate, v := range l.vehicles {
		if l.location[plate] == loc {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out
}

// AllVehicles returns every vehicle the lot has ever seen, ordered by
// plate.
func (l *Lot) AllVehicles() []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, 0, len(l.vehicles))
	for _, v := range l.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out
}
