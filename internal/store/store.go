package store

import (
	"context"
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/subscription"
	"github.com/toruke/2tm1-ParkEase/internal/tariff"
	"github.com/toruke/2tm1-ParkEase/internal/ticket"
	"github.com/toruke/2tm1-ParkEase/internal/vehicle"
)

// Store persists full lot snapshots. Load returns (nil, nil) when no
// state has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Records, error)
	Save(ctx context.Context, rec Records) error
}

// Records is the serialized form of a lot. Arrival and start times are
// epoch seconds; the JSON field names are the facility's historical
// on-disk format.
type Records struct {
	VehiclesIn  []VehicleRecord `json:"cars_in"`
	VehiclesOut []VehicleRecord `json:"cars_out"`
	Spaces      int             `json:"spaces"`
}

type VehicleRecord struct {
	Plate   string              `json:"plate"`
	Tickets []TicketRecord      `json:"tickets"`
	Sub     *SubscriptionRecord `json:"sub"`
}

type TicketRecord struct {
	Plate   string  `json:"plate"`
	Arrival float64 `json:"arrival"`
}

type SubscriptionRecord struct {
	Plate  string  `json:"plate"`
	Months int     `json:"length"`
	Start  float64 `json:"start"`
}

func epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromEpoch(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// Snapshot serializes the lot.
func Snapshot(l *lot.Lot) Records {
	return Records{
		VehiclesIn:  toVehicleRecords(l.Vehicles(lot.Inside)),
		VehiclesOut: toVehicleRecords(l.Vehicles(lot.Outside)),
		Spaces:      l.TotalSpaces(),
	}
}

// RestoreLot reconstructs the lot object graph from records.
func RestoreLot(rec *Records, calc *tariff.Calculator, n lot.Notifier) (*lot.Lot, error) {
	return lot.Restore(rec.Spaces, fromVehicleRecords(rec.VehiclesIn), fromVehicleRecords(rec.VehiclesOut), calc, n)
}

func toVehicleRecords(vehicles []*vehicle.Vehicle) []VehicleRecord {
	out := make([]VehicleRecord, 0, len(vehicles))
	for _, v := range vehicles {
		r := VehicleRecord{Plate: v.Plate, Tickets: make([]TicketRecord, 0, len(v.Tickets))}
		for _, tk := range v.Tickets {
			r.Tickets = append(r.Tickets, TicketRecord{Plate: tk.Plate, Arrival: epoch(tk.Arrival)})
		}
		if v.Sub != nil {
			r.Sub = &SubscriptionRecord{Plate: v.Sub.Plate, Months: v.Sub.Months, Start: epoch(v.Sub.Start)}
		}
		out = append(out, r)
	}
	return out
}

func fromVehicleRecords(records []VehicleRecord) []*vehicle.Vehicle {
	out := make([]*vehicle.Vehicle, 0, len(records))
	for _, r := range records {
		v := vehicle.New(r.Plate)
		for _, tk := range r.Tickets {
			v.Tickets = append(v.Tickets, ticket.New(tk.Plate, fromEpoch(tk.Arrival)))
		}
		if r.Sub != nil {
			v.Sub = subscription.New(r.Sub.Plate, r.Sub.Months, fromEpoch(r.Sub.Start))
		}
		out = append(out, v)
	}
	return out
}
