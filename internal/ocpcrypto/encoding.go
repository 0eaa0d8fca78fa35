package ocpcrypto

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// u32le and concatBytes back the fixed-width little-endian length prefixes
// and byte concatenation every signing/hashing/proof-encoding routine in
// this package builds its input from (transcript challenges, signing
// bytes, canonical point/scalar wire forms).
func u32le(x uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, x)
	return b
}

func concatBytes(chunks ...[]byte) []byte {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// HexToBytes decodes a 0x-prefixed (or bare) lowercase hex string. Used by
// every type in this package (and ledger.CanonicalKey) that round-trips
// through JSON as hex rather than raw bytes.
func HexToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("hex: empty string")
	}
	ss := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(ss)%2 != 0 {
		return nil, fmt.Errorf("hex: odd length")
	}
	b, err := hex.DecodeString(ss)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	return b, nil
}

// BytesToHex renders bytes as lowercase 0x-prefixed hex, matching the
// canonical serde form used across persisted ledger types.
func BytesToHex(b []byte) string {
	return "0x" + strings.ToLower(hex.EncodeToString(b))
}

var hashToScalarPrefix = []byte("OCPv1|hash_to_scalar|")

func updateLenBytes(h hash.Hash, b []byte) {
	h.Write(u32le(uint32(len(b))))
	h.Write(b)
}

// HashToScalar derives a scalar from a domain-separation string and a
// sequence of length-prefixed messages via SHA-512 and uniform reduction.
// Used for one-shot scalar derivations that don't need a full Transcript:
// the shuffle's DeterministicRng seeds its permutation/re-encryption
// scalars this way, and decryption derives each blinding/unblinding
// proof's Schnorr nonce the same way from the contribution it is proving.
func HashToScalar(domainSep string, msgs ...[]byte) (Scalar, error) {
	h := sha512.New()
	h.Write(hashToScalarPrefix)
	updateLenBytes(h, []byte(domainSep))
	for _, m := range msgs {
		if m == nil {
			return Scalar{}, fmt.Errorf("hashToScalar: nil msg")
		}
		updateLenBytes(h, m)
	}
	digest := h.Sum(nil)
	return ScalarFromUniformBytes(digest)
}
