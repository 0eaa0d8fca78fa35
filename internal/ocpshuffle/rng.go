package ocpshuffle

import (
	"fmt"

	"onchainpoker/internal/ocpcrypto"
)

// DeterministicRng derives an unbounded stream of scalars and bytes from a
// seed via domain-separated hashing, so a shuffle can be reproduced exactly
// from its seed without storing the permutation or blinding factors.
type DeterministicRng struct {
	seed    []byte
	counter uint32
}

func NewDeterministicRng(seed []byte) (*DeterministicRng, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("DeterministicRng: empty seed")
	}
	return &DeterministicRng{seed: append([]byte(nil), seed...)}, nil
}

func (r *DeterministicRng) NextScalar() (ocpcrypto.Scalar, error) {
	c := make([]byte, 4)
	c[0] = byte(r.counter)
	c[1] = byte(r.counter >> 8)
	c[2] = byte(r.counter >> 16)
	c[3] = byte(r.counter >> 24)
	r.counter++
	return ocpcrypto.HashToScalar("ocp/v1/shuffle/rng", r.seed, c)
}

func (r *DeterministicRng) NextBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("DeterministicRng.NextBytes: invalid length")
	}
	out := make([]byte, n)
	off := 0
	for off < n {
		s, err := r.NextScalar()
		if err != nil {
			return nil, err
		}
		sb := s.Bytes()
		take := len(sb)
		if n-off < take {
			take = n - off
		}
		copy(out[off:], sb[:take])
		off += take
	}
	return out, nil
}

// NextIndex draws a value in [0, n) via rejection sampling on a single
// byte, used to build a Fisher-Yates permutation without modulo bias for
// the small deck sizes (<=52) this package deals with.
func (r *DeterministicRng) NextIndex(n int) (int, error) {
	if n <= 0 || n > 256 {
		return 0, fmt.Errorf("DeterministicRng.NextIndex: n=%d out of supported range", n)
	}
	limit := 256 - (256 % n)
	for {
		b, err := r.NextBytes(1)
		if err != nil {
			return 0, err
		}
		v := int(b[0])
		if v < limit {
			return v % n, nil
		}
	}
}
