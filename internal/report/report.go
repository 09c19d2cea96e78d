package report

import (
	"sort"
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/vehicle"
)

// Report aggregates every ticket ever issued into occupancy histograms:
// entries per calendar day and per hour of day. Build a fresh Report for
// each request; Collect accumulates and is not idempotent.
type Report struct {
	PerDay  map[string]int `json:"per_day"`
	PerHour map[int]int    `json:"per_hour"`
}

func New() *Report {
	return &Report{
		PerDay:  make(map[string]int),
		PerHour: make(map[int]int),
	}
}

// Collect scans the ticket history of the given vehicles.
func (r *Report) Collect(vehicles []*vehicle.Vehicle) {
	for _, v := range vehicles {
		for _, tk := range v.Tickets {
			r.PerDay[tk.Arrival.Format(time.DateOnly)]++
			r.PerHour[tk.Arrival.Hour()]++
		}
	}
}

// PeakDays returns the busiest day(s), ties included, with their count.
func (r *Report) PeakDays() ([]string, int) {
	max := 0
	for _, c := range r.PerDay {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil, 0
	}
	days := make([]string, 0, 1)
	for d, c := range r.PerDay {
		if c == max {
			days = append(days, d)
		}
	}
	sort.Strings(days)
	return days, max
}

// PeakHours returns the busiest hour(s) of day, ties included, with their
// count.
func (r *Report) PeakHours() ([]int, int) {
	max := 0
	for _, c := range r.PerHour {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil, 0
	}
	hours := make([]int, 0, 1)
	for h, c := range r.PerHour {
		if c == max {
			hours = append(hours, h)
		}
	}
	sort.Ints(hours)
	return hours, max
}
