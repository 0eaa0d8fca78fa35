// Package coordinator binds the committee of shufflers to a live hand:
// once lobby.CommenceHand produces a seated betting.State and shuffler
// order, the coordinator starts the hand's ledger worker via the
// operator, subscribes each shuffler to the hand's realtime feed, and
// releases the binding when Release is called.
package coordinator

import (
	"context"
	"fmt"

	deadlock "github.com/sasha-s/go-deadlock"

	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ledger/operator"
	"onchainpoker/internal/ledger/verifier"
	"onchainpoker/internal/lobby"
)

// Feed is a hand's realtime subscriber set; fan-out implementation is
// left to the transport layer (httpapi's SSE handlers).
type Feed interface {
	Subscribe(hand ledger.HandId, shuffler ledger.ShufflerId) (ch <-chan ledger.FinalizedEnvelope, cancel func())
}

type binding struct {
	game      ledger.GameId
	shufflers []ledger.ShufflerId
	cancels   []func()
}

// Coordinator tracks which hands are currently bound to a running
// committee, keyed by (game, hand) so the same game can have at most one
// hand in flight at a time (enforced upstream by lobby.Game).
type Coordinator struct {
	mu       deadlock.Mutex
	bindings map[handKey]*binding
	operator *operator.Operator
	feed     Feed
}

type handKey struct {
	game ledger.GameId
	hand ledger.HandId
}

func New(op *operator.Operator, feed Feed) *Coordinator {
	return &Coordinator{bindings: map[handKey]*binding{}, operator: op, feed: feed}
}

// BindAndStart starts hand's worker via the operator and subscribes every
// shuffler in order to the hand's realtime feed.
func (c *Coordinator) BindAndStart(ctx context.Context, game ledger.GameId, hand ledger.HandId, initial ledger.AnyTableSnapshot, committee ledger.Committee, reg verifier.Registry, shufflers []lobby.ShufflerRegistration) error {
	key := handKey{game: game, hand: hand}

	c.mu.Lock()
	if _, exists := c.bindings[key]; exists {
		c.mu.Unlock()
		return fmt.Errorf("coordinator: hand (%d,%d) already bound", game, hand)
	}
	c.mu.Unlock()

	if err := c.operator.Start(ctx, hand, initial, committee, reg); err != nil {
		return fmt.Errorf("coordinator: start worker: %w", err)
	}

	b := &binding{game: game}
	for _, s := range shufflers {
		_, cancel := c.feed.Subscribe(hand, s.ShufflerId)
		b.shufflers = append(b.shufflers, s.ShufflerId)
		b.cancels = append(b.cancels, cancel)
	}

	c.mu.Lock()
	c.bindings[key] = b
	c.mu.Unlock()
	return nil
}

// Release stops hand's worker and unsubscribes every bound shuffler.
// Nothing calls it automatically when the hand reaches PhaseComplete; the
// caller is responsible for calling it.
func (c *Coordinator) Release(game ledger.GameId, hand ledger.HandId) {
	key := handKey{game: game, hand: hand}
	c.mu.Lock()
	b, ok := c.bindings[key]
	delete(c.bindings, key)
	c.mu.Unlock()
	if !ok {
		return
	}
	for _, cancel := range b.cancels {
		cancel()
	}
	c.operator.Stop(hand)
}

// ShufflersFor reports the shuffler order bound to a live hand, or false
// if the hand is not bound.
func (c *Coordinator) ShufflersFor(game ledger.GameId, hand ledger.HandId) ([]ledger.ShufflerId, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[handKey{game: game, hand: hand}]
	if !ok {
		return nil, false
	}
	return append([]ledger.ShufflerId{}, b.shufflers...), true
}
