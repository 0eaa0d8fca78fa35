package ocpshuffle

import (
	"fmt"
	"sort"

	"onchainpoker/internal/ocpcrypto"
)

// ShuffleProve permutes and re-encrypts inputs under pk, deriving the
// permutation and re-encryption factors from opts.Seed, then builds an
// audit proof: a hiding commitment to every position's true mapping, plus
// opts.Rounds rounds of a deterministically-chosen half-subset of those
// mappings opened in full. An auditor who checks every opened position
// and finds no inconsistency gains confidence proportional to 2^-rounds
// that the rest of the mapping is also a faithful permutation-plus-
// re-encryption, without ever seeing the unopened half.
func ShuffleProve(opts ShuffleProveOpts, inputs []ocpcrypto.ElGamalCiphertext, pk ocpcrypto.Point) (ShuffleProveResult, error) {
	n := len(inputs)
	if n == 0 {
		return ShuffleProveResult{}, fmt.Errorf("ocpshuffle: empty input deck")
	}
	if n > 256 {
		return ShuffleProveResult{}, fmt.Errorf("ocpshuffle: deck of %d exceeds supported size", n)
	}
	rounds := opts.Rounds
	if rounds <= 0 {
		rounds = 1
	}

	rng, err := NewDeterministicRng(opts.Seed)
	if err != nil {
		return ShuffleProveResult{}, err
	}

	perm, err := derivePermutation(rng, n)
	if err != nil {
		return ShuffleProveResult{}, err
	}

	outputs := make([]ocpcrypto.ElGamalCiphertext, n)
	openings := make([]positionOpening, n)
	for j := 0; j < n; j++ {
		rho, err := rng.NextScalar()
		if err != nil {
			return ShuffleProveResult{}, err
		}
		outputs[j] = ocpcrypto.ElGamalReencrypt(pk, inputs[perm[j]], rho)

		var nonce [16]byte
		nb, err := rng.NextBytes(16)
		if err != nil {
			return ShuffleProveResult{}, err
		}
		copy(nonce[:], nb)

		openings[j] = positionOpening{fromInput: uint16(perm[j]), rho: rho, nonce: nonce}
	}

	commitments := make([][32]byte, n)
	for j := range openings {
		commitments[j] = commitOpening(openings[j])
	}

	transcript, err := buildShuffleTranscript(pk, inputs, outputs, commitments)
	if err != nil {
		return ShuffleProveResult{}, err
	}

	out := make([]byte, 0, 4+n*32+rounds*(2+n/2*(2+50)))
	out = append(out, u16ToBytesLE(uint16(n))...)
	out = append(out, u16ToBytesLE(uint16(rounds))...)
	for _, cm := range commitments {
		out = append(out, cm[:]...)
	}

	for r := 0; r < rounds; r++ {
		subset, err := deriveAuditSubset(transcript, r, n)
		if err != nil {
			return ShuffleProveResult{}, err
		}
		out = append(out, u16ToBytesLE(uint16(len(subset)))...)
		for _, j := range subset {
			out = append(out, u16ToBytesLE(uint16(j))...)
			out = append(out, openings[j].bytes()...)
		}
	}

	return ShuffleProveResult{DeckOut: outputs, ProofBytes: out}, nil
}

// ShuffleVerify checks a ShuffleProve proof against the claimed input and
// output decks: every audited position's commitment must open correctly,
// and the opened re-encryption relation output[j] = Reenc(input[from],
// rho) must hold under pk.
func ShuffleVerify(pk ocpcrypto.Point, inputs, outputs []ocpcrypto.ElGamalCiphertext, proofBytes []byte) ShuffleVerifyResult {
	r := newReader(proofBytes)
	nU16, err := r.takeU16LE()
	if err != nil {
		return ShuffleVerifyResult{Error: err.Error()}
	}
	n := int(nU16)
	if n != len(inputs) || n != len(outputs) {
		return ShuffleVerifyResult{Error: fmt.Sprintf("ocpshuffle: deck size mismatch: proof=%d inputs=%d outputs=%d", n, len(inputs), len(outputs))}
	}
	roundsU16, err := r.takeU16LE()
	if err != nil {
		return ShuffleVerifyResult{Error: err.Error()}
	}
	rounds := int(roundsU16)

	commitments := make([][32]byte, n)
	for j := 0; j < n; j++ {
		cb, err := r.take(32)
		if err != nil {
			return ShuffleVerifyResult{Error: err.Error()}
		}
		copy(commitments[j][:], cb)
	}

	transcript, err := buildShuffleTranscript(pk, inputs, outputs, commitments)
	if err != nil {
		return ShuffleVerifyResult{Error: err.Error()}
	}

	for round := 0; round < rounds; round++ {
		expectedSubset, err := deriveAuditSubset(transcript, round, n)
		if err != nil {
			return ShuffleVerifyResult{Error: err.Error()}
		}
		sizeU16, err := r.takeU16LE()
		if err != nil {
			return ShuffleVerifyResult{Error: err.Error()}
		}
		if int(sizeU16) != len(expectedSubset) {
			return ShuffleVerifyResult{Error: fmt.Sprintf("ocpshuffle: round %d subset size mismatch", round)}
		}
		for _, wantJ := range expectedSubset {
			jU16, err := r.takeU16LE()
			if err != nil {
				return ShuffleVerifyResult{Error: err.Error()}
			}
			if int(jU16) != wantJ {
				return ShuffleVerifyResult{Error: fmt.Sprintf("ocpshuffle: round %d expected position %d, got %d", round, wantJ, jU16)}
			}
			ob, err := r.take(2 + 32 + 16)
			if err != nil {
				return ShuffleVerifyResult{Error: err.Error()}
			}
			opening, err := parsePositionOpening(ob)
			if err != nil {
				return ShuffleVerifyResult{Error: err.Error()}
			}
			if commitOpening(opening) != commitments[wantJ] {
				return ShuffleVerifyResult{Error: fmt.Sprintf("ocpshuffle: round %d position %d commitment mismatch", round, wantJ)}
			}
			if int(opening.fromInput) >= n {
				return ShuffleVerifyResult{Error: fmt.Sprintf("ocpshuffle: round %d position %d source index out of range", round, wantJ)}
			}
			want := ocpcrypto.ElGamalReencrypt(pk, inputs[opening.fromInput], opening.rho)
			if !ocpcrypto.PointEq(want.C1, outputs[wantJ].C1) || !ocpcrypto.PointEq(want.C2, outputs[wantJ].C2) {
				return ShuffleVerifyResult{Error: fmt.Sprintf("ocpshuffle: round %d position %d re-encryption does not match", round, wantJ)}
			}
		}
	}
	if !r.done() {
		return ShuffleVerifyResult{Error: "ocpshuffle: trailing bytes in proof"}
	}
	return ShuffleVerifyResult{OK: true, DeckOut: outputs}
}

func derivePermutation(rng *DeterministicRng, n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := rng.NextIndex(i + 1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

func buildShuffleTranscript(pk ocpcrypto.Point, inputs, outputs []ocpcrypto.ElGamalCiphertext, commitments [][32]byte) (*ocpcrypto.Transcript, error) {
	t := ocpcrypto.NewTranscript("ocp/v1/shuffle/audit")
	if err := t.AppendMessage("pk", pk.Bytes()); err != nil {
		return nil, err
	}
	for _, ct := range inputs {
		if err := t.AppendMessage("in", encodeCiphertext(ct)); err != nil {
			return nil, err
		}
	}
	for _, ct := range outputs {
		if err := t.AppendMessage("out", encodeCiphertext(ct)); err != nil {
			return nil, err
		}
	}
	for _, cm := range commitments {
		if err := t.AppendMessage("commit", cm[:]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// deriveAuditSubset expands the transcript into a round-labelled challenge
// scalar, then uses it to seed a Fisher-Yates draw of n/2 positions out of
// n, returned sorted ascending.
func deriveAuditSubset(transcript *ocpcrypto.Transcript, round, n int) ([]int, error) {
	clone := transcript.Clone()
	if err := clone.AppendMessage("round", u32ToBytesLE(uint32(round))); err != nil {
		return nil, err
	}
	challenge, err := clone.ChallengeScalar("subset")
	if err != nil {
		return nil, err
	}

	seed := challenge.Bytes()
	rng, err := NewDeterministicRng(seed)
	if err != nil {
		return nil, err
	}
	perm, err := derivePermutation(rng, n)
	if err != nil {
		return nil, err
	}
	half := n / 2
	subset := append([]int{}, perm[:half]...)
	sort.Ints(subset)
	return subset, nil
}
