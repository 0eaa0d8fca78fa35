// Package ocpshuffle implements a verifiable re-encryption shuffle over
// ElGamal ciphertexts: permute a deck and re-encrypt every card under the
// same public key, then let an auditor check a deterministically-chosen
// subset of the position mapping without learning the rest of it.
package ocpshuffle

import "onchainpoker/internal/ocpcrypto"

// ShuffleProveOpts configures a shuffle. Seed drives both the permutation
// and the per-position re-encryption factors deterministically, so the
// same seed always reproduces the same outputs and proof. Rounds is the
// number of independent commit/reveal audit rounds: each round challenges
// a fresh random half of the positions, so the fraction of the mapping
// that stays hidden from every round shrinks by half each additional
// round.
type ShuffleProveOpts struct {
	Seed   []byte
	Rounds int
}

// ShuffleProveResult is the permuted, re-encrypted deck plus the encoded
// audit proof.
type ShuffleProveResult struct {
	DeckOut    []ocpcrypto.ElGamalCiphertext
	ProofBytes []byte
}

// ShuffleVerifyResult reports whether the proof checks out against the
// claimed input/output decks.
type ShuffleVerifyResult struct {
	OK      bool
	Error   string
	DeckOut []ocpcrypto.ElGamalCiphertext
}
