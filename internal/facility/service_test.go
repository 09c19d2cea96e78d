package facility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/store"
	"github.com/toruke/2tm1-ParkEase/internal/tariff"
)

type MockStore struct{ mock.Mock }

func (m *MockStore) Load(ctx context.Context) (*store.Records, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Records), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, rec store.Records) error {
	return m.Called(ctx, rec).Error(0)
}

func newService(t *testing.T, st store.Store, spaces int) *Service {
	t.Helper()
	calc := tariff.NewCalculator(tariff.DefaultConfig())
	l, err := lot.Restore(spaces, nil, nil, calc, nil)
	require.NoError(t, err)
	return NewService(l, st)
}

func TestCheckInPersistsSnapshot(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newService(t, st, 2)

	available, err := svc.CheckIn(context.Background(), "AAA111")
	require.NoError(t, err)
	assert.Equal(t, 1, available)

	st.AssertExpectations(t)
	saved := st.Calls[0].Arguments.Get(1).(store.Records)
	require.Len(t, saved.VehiclesIn, 1)
	assert.Equal(t, "AAA111", saved.VehiclesIn[0].Plate)
	assert.Equal(t, 2, saved.Spaces)
}

func TestRejectedCheckInDoesNotPersist(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newService(t, st, 1)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "AAA111")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, "BBB222")
	assert.True(t, errors.Is(err, lot.ErrLotFull))

	st.AssertNumberOfCalls(t, "Save", 1)
}

func TestCheckInSurfacesSaveFailure(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := newService(t, st, 2)

	_, err := svc.CheckIn(context.Background(), "AAA111")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCheckOutPersistsAndPrices(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newService(t, st, 2)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "AAA111")
	require.NoError(t, err)

	r, err := svc.CheckOut(ctx, "AAA111")
	require.NoError(t, err)
	assert.Equal(t, "AAA111", r.Plate)
	assert.Equal(t, int64(0), r.Amount)

	st.AssertNumberOfCalls(t, "Save", 2)
	saved := st.Calls[1].Arguments.Get(1).(store.Records)
	assert.Empty(t, saved.VehiclesIn)
	require.Len(t, saved.VehiclesOut, 1)
}

func TestSubscribeAndInspect(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newService(t, st, 2)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "AAA111"))

	sub, price, err := svc.Subscribe(ctx, "AAA111", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(300), price)
	assert.Equal(t, 3, sub.Months)

	got, err := svc.SubscriptionInfo("AAA111")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Months)

	// Snapshots must not alias the live subscription.
	got.Extend(5)
	again, err := svc.SubscriptionInfo("AAA111")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Months)
}

func TestExtendSubscription(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newService(t, st, 2)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "AAA111"))
	_, _, err := svc.Subscribe(ctx, "AAA111", 1)
	require.NoError(t, err)

	sub, price, err := svc.ExtendSubscription(ctx, "AAA111", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(200), price)
	assert.Equal(t, 3, sub.Months)
}

func TestReportCoversInsideAndOutside(t *testing.T) {
	st := &MockStore{}
	st.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newService(t, st, 3)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "AAA111")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, "BBB222")
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "BBB222")
	require.NoError(t, err)

	r := svc.Report()
	total := 0
	for _, c := range r.PerDay {
		total += c
	}
	assert.Equal(t, 2, total)
}
