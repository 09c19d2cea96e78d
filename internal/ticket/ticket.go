package ticket

import "time"

// Ticket records a single physical entry of a vehicle. It is immutable
// once issued and is kept in the vehicle's history forever.
type Ticket struct {
	Plate   string    `json:"plate"`
	Arrival time.Time `json:"arrival"`
}

func New(plate string, arrival time.Time) Ticket {
	return Ticket{Plate: plate, Arrival: arrival}
}

// ParkedTime is the time spent parked on this ticket, evaluated at now.
func (t Ticket) ParkedTime(now time.Time) time.Duration {
	return now.Sub(t.Arrival)
}
