// Package balance tracks the lamport balance of the connected account.
// The tracker is the only writer of the stored balance; the transfer
// workflow just reads it.
package balance

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

// QueryFunc fetches the lamport balance of an account.
type QueryFunc func(ctx context.Context, account solana.PublicKey) (uint64, error)

// Tracker polls the balance of one account while it is being watched.
// Balance starts unknown, becomes known on the first successful refresh,
// and is reset to unknown only on Unwatch. A failed refresh keeps the
// previous value: a transient RPC failure must not regress a known
// balance.
type Tracker struct {
	query    QueryFunc
	interval time.Duration
	logger   *zerolog.Logger

	mu       sync.RWMutex
	account  solana.PublicKey
	watching bool
	lamports uint64
	known    bool

	stop chan struct{}
	done sync.WaitGroup
}

func NewTracker(query QueryFunc, interval time.Duration, logger *zerolog.Logger) *Tracker {
	return &Tracker{
		query:    query,
		interval: interval,
		logger:   logger,
	}
}

// Watch starts tracking the account: one immediate refresh, then one every
// interval. Watching a new account tears down the previous loop first.
func (t *Tracker) Watch(ctx context.Context, account solana.PublicKey) {
	t.Unwatch()

	t.mu.Lock()
	t.account = account
	t.watching = true
	t.stop = make(chan struct{})
	stop := t.stop
	t.mu.Unlock()

	t.RefreshNow(ctx)

	t.done.Add(1)
	go t.poll(ctx, stop)
}

func (t *Tracker) poll(ctx context.Context, stop chan struct{}) {
	defer t.done.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.RefreshNow(ctx)
		}
	}
}

// Unwatch tears the poll loop down synchronously and resets the balance to
// unknown. No refresh lands after it returns.
func (t *Tracker) Unwatch() {
	t.mu.Lock()
	if !t.watching {
		t.mu.Unlock()
		return
	}
	t.watching = false
	close(t.stop)
	t.mu.Unlock()

	t.done.Wait()

	t.mu.Lock()
	t.account = solana.PublicKey{}
	t.lamports = 0
	t.known = false
	t.mu.Unlock()
}

// RefreshNow queries the balance once. Failures are logged and swallowed;
// the previously known balance is retained.
func (t *Tracker) RefreshNow(ctx context.Context) {
	t.mu.RLock()
	account := t.account
	watching := t.watching
	t.mu.RUnlock()

	if !watching {
		return
	}

	lamports, err := t.query(ctx, account)
	if err != nil {
		t.logger.Warn().
			Err(err).
			Str("account", account.String()).
			Msg("Balance refresh failed, keeping last known value")
		return
	}

	t.mu.Lock()
	// The account may have been unwatched while the query was in flight.
	if t.watching && t.account.Equals(account) {
		t.lamports = lamports
		t.known = true
	}
	t.mu.Unlock()

	t.logger.Debug().
		Str("account", account.String()).
		Uint64("lamports", lamports).
		Msg("Balance refreshed")
}

// Balance returns the latest known lamport balance. known is false before
// the first successful refresh and after Unwatch.
func (t *Tracker) Balance() (uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lamports, t.known
}
