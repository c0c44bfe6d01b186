// Package verify confirms that a transaction signed out-of-band reached the
// chain by polling the node a bounded number of times.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultAttempts = 5
	DefaultDelay    = 2 * time.Second
)

// StatusFetcher performs a single, non-blocking transaction status query.
type StatusFetcher interface {
	TxStatus(ctx context.Context, rpcURL, txHash, signerID string) (json.RawMessage, error)
}

// Poller retries a StatusFetcher at a fixed interval. Inclusion latency on
// NEAR is short and predictable, so there is no backoff.
type Poller struct {
	Fetcher  StatusFetcher
	Attempts int
	Delay    time.Duration
	// Sleep waits between attempts; nil uses a context-aware timer. Use
	// NoWait to poll back to back.
	Sleep func(ctx context.Context, d time.Duration) error
	Log   zerolog.Logger
}

func NewPoller(fetcher StatusFetcher, attempts int, delay time.Duration, log zerolog.Logger) *Poller {
	return &Poller{Fetcher: fetcher, Attempts: attempts, Delay: delay, Log: log}
}

// Poll returns the first successful status for txHash. After Attempts
// failures it returns a CodeNotFound error wrapping the last failure.
func (p *Poller) Poll(ctx context.Context, rpcURL, txHash, signerID string) (json.RawMessage, error) {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	delay := p.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := p.Fetcher.TxStatus(ctx, rpcURL, txHash, signerID)
		if err == nil {
			p.Log.Debug().Str("tx_hash", txHash).Int("attempt", i+1).Msg("transaction found")
			return result, nil
		}
		lastErr = err
		p.Log.Debug().Err(err).Str("tx_hash", txHash).Int("attempt", i+1).Int("attempts", attempts).Msg("transaction status unavailable")
		if i < attempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return nil, clierr.Wrap(clierr.CodeUnavailable, "verification cancelled", err)
			}
		}
	}
	return nil, clierr.Wrap(clierr.CodeNotFound, fmt.Sprintf("transaction %s not found after %d attempts", txHash, attempts), lastErr)
}

// NoWait is a Sleep that only honours cancellation.
func NoWait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
