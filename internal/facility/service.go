package facility

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/toruke/2tm1-ParkEase/internal/logger"
	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/metrics"
	"github.com/toruke/2tm1-ParkEase/internal/report"
	"github.com/toruke/2tm1-ParkEase/internal/store"
	"github.com/toruke/2tm1-ParkEase/internal/subscription"
)

// Service wraps the lot for the HTTP surface. The lot itself is
// single-threaded by design, so every operation runs under one mutex, and
// every successful mutation is persisted before the call returns —
// the same load-operate-store cycle the command interface uses.
type Service struct {
	mu sync.Mutex
	l  *lot.Lot
	st store.Store
}

func NewService(l *lot.Lot, st store.Store) *Service {
	return &Service{l: l, st: st}
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.st.Save(ctx, store.Snapshot(s.l)); err != nil {
		logger.Error("failed to persist lot state", "error", err)
		return fmt.Errorf("state not persisted: %w", err)
	}
	return nil
}

func rejectionReason(err error) string {
	if errors.Is(err, lot.ErrLotFull) {
		return "lot_full"
	}
	var dup *lot.DuplicateEntryError
	if errors.As(err, &dup) {
		return "already_inside"
	}
	return "other"
}

// CheckIn admits a plate and returns the remaining free spaces.
func (s *Service) CheckIn(ctx context.Context, plate string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.l.CheckIn(ctx, plate, time.Now()); err != nil {
		metrics.RecordCheckInRejection(rejectionReason(err))
		return 0, err
	}
	metrics.RecordCheckIn()
	metrics.SetOccupancy(s.l.InsideCount(), s.l.AvailableSpaces())

	if err := s.persist(ctx); err != nil {
		return 0, err
	}
	logger.Info("vehicle checked in", "plate", plate, "available", s.l.AvailableSpaces())
	return s.l.AvailableSpaces(), nil
}

// CheckOut releases a plate and returns its receipt.
func (s *Service) CheckOut(ctx context.Context, plate string) (*lot.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.l.CheckOut(plate, time.Now())
	if err != nil {
		return nil, err
	}
	metrics.RecordCheckOut(r.Amount)
	metrics.SetOccupancy(s.l.InsideCount(), s.l.AvailableSpaces())

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	logger.Info("vehicle checked out", "plate", plate, "amount_due", r.Amount)
	return r, nil
}

// Spaces reports current availability.
func (s *Service) Spaces() (available, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.l.AvailableSpaces(), s.l.TotalSpaces()
}

// Register creates a vehicle outside the lot without a ticket.
func (s *Service) Register(ctx context.Context, plate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.l.RegisterVehicle(plate); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	logger.Info("vehicle registered", "plate", plate)
	return nil
}

// Subscribe sells a new pass for the plate.
func (s *Service) Subscribe(ctx context.Context, plate string, months int) (*subscription.Subscription, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, price, err := s.l.Subscribe(plate, months, time.Now())
	if err != nil {
		return nil, 0, err
	}
	metrics.RecordSubscription("new")

	if err := s.persist(ctx); err != nil {
		return nil, 0, err
	}
	snapshot := *sub
	logger.Info("subscription created", "plate", plate, "months", months, "price", price)
	return &snapshot, price, nil
}

// ExtendSubscription lengthens the plate's pass.
func (s *Service) ExtendSubscription(ctx context.Context, plate string, months int) (*subscription.Subscription, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, err := s.l.ExtendSubscription(plate, months)
	if err != nil {
		return nil, 0, err
	}
	metrics.RecordSubscription("extension")

	if err := s.persist(ctx); err != nil {
		return nil, 0, err
	}
	sub, err := s.l.Subscription(plate)
	if err != nil {
		return nil, 0, err
	}
	snapshot := *sub
	logger.Info("subscription extended", "plate", plate, "months", months, "price", price)
	return &snapshot, price, nil
}

// SubscriptionInfo returns a snapshot of the plate's pass.
func (s *Service) SubscriptionInfo(plate string) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.l.Subscription(plate)
	if err != nil {
		return nil, err
	}
	snapshot := *sub
	return &snapshot, nil
}

// Report builds a fresh occupancy report over every ticket ever issued.
func (s *Service) Report() *report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := report.New()
	r.Collect(s.l.AllVehicles())
	return r
}
