package facility

import (
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/subscription"
)

type SpacesResponse struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

type CheckInResponse struct {
	Plate     string `json:"plate"`
	Available int    `json:"available"`
}

type ReceiptResponse struct {
	Plate           string            `json:"plate"`
	Duration        string            `json:"duration"`
	DurationSeconds int64             `json:"duration_seconds"`
	AmountDue       int64             `json:"amount_due"`
	Subscription    *SubscriptionInfo `json:"subscription,omitempty"`
}

type SubscriptionInfo struct {
	Plate  string    `json:"plate"`
	Months int       `json:"months"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Active bool      `json:"active"`
}

type SubscriptionResponse struct {
	Subscription SubscriptionInfo `json:"subscription"`
	Price        int64            `json:"price"`
}

type ReportResponse struct {
	PerDay        map[string]int `json:"per_day"`
	PerHour       map[int]int    `json:"per_hour"`
	PeakDays      []string       `json:"peak_days"`
	PeakDayCount  int            `json:"peak_day_count"`
	PeakHours     []int          `json:"peak_hours"`
	PeakHourCount int            `json:"peak_hour_count"`
}

func subscriptionInfo(sub *subscription.Subscription, now time.Time) *SubscriptionInfo {
	if sub == nil {
		return nil
	}
	return &SubscriptionInfo{
		Plate:  sub.Plate,
		Months: sub.Months,
		Start:  sub.Start,
		End:    sub.End(),
		Active: sub.IsActive(now),
	}
}
