package ocpshuffle

import (
	"crypto/sha256"
	"fmt"

	"onchainpoker/internal/ocpcrypto"
)

// positionOpening is everything an auditor needs to check one output
// position's mapping back to its source input: which input slot it came
// from, the re-encryption factor used, and a hiding nonce.
type positionOpening struct {
	fromInput uint16
	rho       ocpcrypto.Scalar
	nonce     [16]byte
}

func (o positionOpening) bytes() []byte {
	out := make([]byte, 0, 2+32+16)
	out = append(out, u16ToBytesLE(o.fromInput)...)
	out = append(out, encodeScalar(o.rho)...)
	out = append(out, o.nonce[:]...)
	return out
}

// commitOpening produces a binding, hiding SHA-256 commitment to an
// opening. Hiding follows from the 128-bit nonce; binding follows from
// SHA-256 collision resistance.
func commitOpening(o positionOpening) [32]byte {
	return sha256.Sum256(o.bytes())
}

func parsePositionOpening(b []byte) (positionOpening, error) {
	if len(b) != 2+32+16 {
		return positionOpening{}, fmt.Errorf("ocpshuffle: opening must be %d bytes, got %d", 2+32+16, len(b))
	}
	r := newReader(b)
	fromInputB, _ := r.take(2)
	fromInput, err := u16FromBytesLE(fromInputB)
	if err != nil {
		return positionOpening{}, err
	}
	rhoB, _ := r.take(32)
	rho, err := decodeScalar(rhoB)
	if err != nil {
		return positionOpening{}, err
	}
	nonceB, _ := r.take(16)
	var nonce [16]byte
	copy(nonce[:], nonceB)
	return positionOpening{fromInput: fromInput, rho: rho, nonce: nonce}, nil
}
