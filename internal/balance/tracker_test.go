package balance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAccount = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// fakeQuery serves scripted balances and counts calls.
type fakeQuery struct {
	mu       sync.Mutex
	lamports uint64
	err      error
	calls    int
}

func (f *fakeQuery) fn(_ context.Context, _ solana.PublicKey) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.lamports, nil
}

func (f *fakeQuery) set(lamports uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lamports = lamports
	f.err = err
}

func (f *fakeQuery) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestTracker(query *fakeQuery) *Tracker {
	logger := zerolog.New(nil)
	// Long interval: tests drive refreshes explicitly.
	return NewTracker(query.fn, time.Hour, &logger)
}

func TestBalanceUnknownBeforeWatch(t *testing.T) {
	tracker := newTestTracker(&fakeQuery{})

	_, known := tracker.Balance()
	assert.False(t, known)
}

func TestWatchRefreshesImmediately(t *testing.T) {
	query := &fakeQuery{lamports: 1_500_000_000}
	tracker := newTestTracker(query)
	defer tracker.Unwatch()

	tracker.Watch(context.Background(), testAccount)

	lamports, known := tracker.Balance()
	require.True(t, known)
	assert.Equal(t, uint64(1_500_000_000), lamports)
	assert.Equal(t, 1, query.callCount())
}

func TestRefreshIsIdempotent(t *testing.T) {
	query := &fakeQuery{lamports: 2_000_000_000}
	tracker := newTestTracker(query)
	defer tracker.Unwatch()

	tracker.Watch(context.Background(), testAccount)
	tracker.RefreshNow(context.Background())
	tracker.RefreshNow(context.Background())

	lamports, known := tracker.Balance()
	require.True(t, known)
	assert.Equal(t, uint64(2_000_000_000), lamports)
	assert.Equal(t, 3, query.callCount())
}

func TestFailedRefreshRetainsKnownBalance(t *testing.T) {
	query := &fakeQuery{lamports: 1_000_000_000}
	tracker := newTestTracker(query)
	defer tracker.Unwatch()

	tracker.Watch(context.Background(), testAccount)

	query.set(0, errors.New("rpc unavailable"))
	tracker.RefreshNow(context.Background())

	// A transient failure must not regress the known balance.
	lamports, known := tracker.Balance()
	require.True(t, known)
	assert.Equal(t, uint64(1_000_000_000), lamports)
}

func TestFailedFirstRefreshStaysUnknown(t *testing.T) {
	query := &fakeQuery{err: errors.New("rpc unavailable")}
	tracker := newTestTracker(query)
	defer tracker.Unwatch()

	tracker.Watch(context.Background(), testAccount)

	_, known := tracker.Balance()
	assert.False(t, known)
}

func TestUnwatchResetsToUnknown(t *testing.T) {
	query := &fakeQuery{lamports: 1_000_000_000}
	tracker := newTestTracker(query)

	tracker.Watch(context.Background(), testAccount)
	_, known := tracker.Balance()
	require.True(t, known)

	tracker.Unwatch()

	_, known = tracker.Balance()
	assert.False(t, known)

	// No refreshes land after Unwatch returns.
	calls := query.callCount()
	tracker.RefreshNow(context.Background())
	assert.Equal(t, calls, query.callCount())
}

func TestUnwatchWithoutWatchIsNoop(t *testing.T) {
	tracker := newTestTracker(&fakeQuery{})
	tracker.Unwatch()
	tracker.Unwatch()
}

func TestPollLoopRefreshes(t *testing.T) {
	query := &fakeQuery{lamports: 1_000_000_000}
	logger := zerolog.New(nil)
	tracker := NewTracker(query.fn, 10*time.Millisecond, &logger)
	defer tracker.Unwatch()

	tracker.Watch(context.Background(), testAccount)

	assert.Eventually(t, func() bool {
		return query.callCount() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestRewatchSwitchesAccount(t *testing.T) {
	query := &fakeQuery{lamports: 1_000_000_000}
	tracker := newTestTracker(query)
	defer tracker.Unwatch()

	tracker.Watch(context.Background(), testAccount)
	query.set(7_000_000_000, nil)

	other := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	tracker.Watch(context.Background(), other)

	lamports, known := tracker.Balance()
	require.True(t, known)
	assert.Equal(t, uint64(7_000_000_000), lamports)
}
