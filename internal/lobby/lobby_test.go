package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"

	"onchainpoker/internal/betting"
	"onchainpoker/internal/ledger"
	"onchainpoker/internal/ocpcrypto"
)

func dummyKey(seed uint64) ledger.CanonicalKey {
	return ledger.NewCanonicalKey(ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(seed)))
}

func TestJoinRejectsDuplicateSeat(t *testing.T) {
	g := NewGame(1, betting.TableStakes{SmallBlind: 10, BigBlind: 20}, 6)
	require.NoError(t, g.Join(0, 100, dummyKey(1), 1000))
	require.Error(t, g.Join(0, 200, dummyKey(2), 1000))
}

func TestReadyRequiresSeatsAndShuffler(t *testing.T) {
	g := NewGame(1, betting.TableStakes{SmallBlind: 10, BigBlind: 20}, 6)
	require.False(t, g.Ready())
	require.NoError(t, g.Join(0, 100, dummyKey(1), 1000))
	require.NoError(t, g.Join(1, 200, dummyKey(2), 1000))
	require.False(t, g.Ready())
	require.NoError(t, g.RegisterShuffler(10, dummyKey(3), dummyKey(4)))
	require.True(t, g.Ready())
}

func TestCommenceHandAssignsHeadsUpBlinds(t *testing.T) {
	g := NewGame(1, betting.TableStakes{SmallBlind: 10, BigBlind: 20}, 6)
	require.NoError(t, g.Join(0, 100, dummyKey(1), 1000))
	require.NoError(t, g.Join(1, 200, dummyKey(2), 1000))
	require.NoError(t, g.RegisterShuffler(10, dummyKey(3), dummyKey(4)))

	state, shufflers, err := g.CommenceHand(0)
	require.NoError(t, err)
	require.Len(t, shufflers, 1)
	require.Equal(t, betting.SeatId(1), state.BigBlindSeat)
	require.Len(t, state.Seats, 2)

	_, _, err = g.CommenceHand(0)
	require.Error(t, err, "a second hand cannot commence while one is in flight")
}

func TestCommenceHandRequiresMinimumSeatsAndShufflers(t *testing.T) {
	g := NewGame(1, betting.TableStakes{SmallBlind: 10, BigBlind: 20}, 6)
	require.NoError(t, g.Join(0, 100, dummyKey(1), 1000))
	_, _, err := g.CommenceHand(0)
	require.Error(t, err)
}

func TestEndHandAllowsNextCommence(t *testing.T) {
	g := NewGame(1, betting.TableStakes{SmallBlind: 10, BigBlind: 20}, 6)
	require.NoError(t, g.Join(0, 100, dummyKey(1), 1000))
	require.NoError(t, g.Join(1, 200, dummyKey(2), 1000))
	require.NoError(t, g.RegisterShuffler(10, dummyKey(3), dummyKey(4)))

	_, _, err := g.CommenceHand(0)
	require.NoError(t, err)
	g.EndHand()

	_, _, err = g.CommenceHand(1)
	require.NoError(t, err)
}
