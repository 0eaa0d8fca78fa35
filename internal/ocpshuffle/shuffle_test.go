package ocpshuffle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"onchainpoker/internal/ocpcrypto"
)

func samplePlaintexts(t *testing.T, n int, pk ocpcrypto.Point) []ocpcrypto.ElGamalCiphertext {
	t.Helper()
	out := make([]ocpcrypto.ElGamalCiphertext, n)
	for i := 0; i < n; i++ {
		m := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(uint64(i + 1)))
		r := ocpcrypto.ScalarFromUint64(uint64(1000 + i))
		ct, err := ocpcrypto.ElGamalEncrypt(pk, m, r)
		require.NoError(t, err)
		out[i] = ct
	}
	return out
}

func TestShuffleProveVerifyRoundTrip(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(777)
	pk := ocpcrypto.MulBase(sk)
	inputs := samplePlaintexts(t, 8, pk)

	result, err := ShuffleProve(ShuffleProveOpts{Seed: []byte("shuffle-seed-1"), Rounds: 4}, inputs, pk)
	require.NoError(t, err)
	require.Len(t, result.DeckOut, len(inputs))

	verify := ShuffleVerify(pk, inputs, result.DeckOut, result.ProofBytes)
	require.True(t, verify.OK, verify.Error)
}

func TestShuffleVerifyRejectsTamperedOutput(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(777)
	pk := ocpcrypto.MulBase(sk)
	inputs := samplePlaintexts(t, 6, pk)

	result, err := ShuffleProve(ShuffleProveOpts{Seed: []byte("shuffle-seed-2"), Rounds: 6}, inputs, pk)
	require.NoError(t, err)

	tampered := append([]ocpcrypto.ElGamalCiphertext{}, result.DeckOut...)
	tampered[0], tampered[1] = tampered[1], tampered[0]

	verify := ShuffleVerify(pk, inputs, tampered, result.ProofBytes)
	require.False(t, verify.OK)
}

func TestShuffleVerifyRejectsWrongDeckSize(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(1)
	pk := ocpcrypto.MulBase(sk)
	inputs := samplePlaintexts(t, 4, pk)

	result, err := ShuffleProve(ShuffleProveOpts{Seed: []byte("seed"), Rounds: 2}, inputs, pk)
	require.NoError(t, err)

	verify := ShuffleVerify(pk, inputs[:3], result.DeckOut[:3], result.ProofBytes)
	require.False(t, verify.OK)
}

func TestDerivePermutationIsBijection(t *testing.T) {
	rng, err := NewDeterministicRng([]byte("perm-seed"))
	require.NoError(t, err)
	perm, err := derivePermutation(rng, 52)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, p := range perm {
		require.False(t, seen[p])
		seen[p] = true
	}
	require.Len(t, seen, 52)
}
