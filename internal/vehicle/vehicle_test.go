package vehicle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toruke/2tm1-ParkEase/internal/subscription"
)

var now = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func TestAddTicketAppendsChronologically(t *testing.T) {
	v := New("AAA111")

	v.AddTicket(now)
	v.AddTicket(now.Add(2 * time.Hour))

	require.Len(t, v.Tickets, 2)
	last, ok := v.LastTicket()
	require.True(t, ok)
	assert.Equal(t, now.Add(2*time.Hour), last.Arrival)
}

func TestLastTicketEmpty(t *testing.T) {
	v := New("AAA111")
	_, ok := v.LastTicket()
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	v := New("AAA111")

	sub, err := v.Subscribe(2, now)
	require.NoError(t, err)
	assert.Equal(t, "AAA111", sub.Plate)
	assert.Equal(t, 2, sub.Months)
	assert.Equal(t, now, sub.Start)
}

func TestSubscribeRejectsActiveSubscription(t *testing.T) {
	v := New("AAA111")
	_, err := v.Subscribe(1, now)
	require.NoError(t, err)

	_, err = v.Subscribe(1, now.AddDate(0, 0, 10))

	var dup *subscription.AlreadyActiveError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, v.Sub.End(), dup.ExpiresAt)
}

func TestSubscribeOverwritesExpiredSubscription(t *testing.T) {
	v := New("AAA111")
	_, err := v.Subscribe(1, now.AddDate(-1, 0, 0))
	require.NoError(t, err)

	sub, err := v.Subscribe(3, now)
	require.NoError(t, err)
	assert.Equal(t, now, sub.Start)
	assert.Equal(t, 3, sub.Months)
	assert.Same(t, sub, v.Sub)
}

func TestSubscribeRejectsBadLength(t *testing.T) {
	v := New("AAA111")
	_, err := v.Subscribe(0, now)
	assert.True(t, errors.Is(err, subscription.ErrInvalidLength))
}

func TestExtendSubscription(t *testing.T) {
	v := New("AAA111")
	_, err := v.Subscribe(1, now)
	require.NoError(t, err)

	require.NoError(t, v.ExtendSubscription(2))
	assert.Equal(t, 3, v.Sub.Months)
	assert.Equal(t, now, v.Sub.Start)
}

func TestExtendWithoutSubscription(t *testing.T) {
	v := New("AAA111")
	err := v.ExtendSubscription(1)
	assert.True(t, errors.Is(err, subscription.ErrNoSubscription))
}
