package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"onchainpoker/internal/ocpcrypto"
)

// CanonicalKey wraps a curve point and eagerly caches its compressed
// bytes. Equality, ordering, and hashing MUST go through the cached bytes
// only — never through the curve value itself — so that two keys compare
// identically regardless of how the underlying point representation was
// constructed.
type CanonicalKey struct {
	point ocpcrypto.Point
	bytes []byte
}

func NewCanonicalKey(p ocpcrypto.Point) CanonicalKey {
	return CanonicalKey{point: p, bytes: p.Bytes()}
}

func CanonicalKeyFromBytes(b []byte) (CanonicalKey, error) {
	p, err := ocpcrypto.PointFromBytesCanonical(b)
	if err != nil {
		return CanonicalKey{}, fmt.Errorf("ledger: canonical key: %w", err)
	}
	cached := make([]byte, len(b))
	copy(cached, b)
	return CanonicalKey{point: p, bytes: cached}, nil
}

func CanonicalKeyFromHex(s string) (CanonicalKey, error) {
	b, err := ocpcrypto.HexToBytes(s)
	if err != nil {
		return CanonicalKey{}, err
	}
	return CanonicalKeyFromBytes(b)
}

// Point returns the underlying curve point for use in cryptographic
// computation. Never use this for equality, ordering, or hashing.
func (k CanonicalKey) Point() ocpcrypto.Point { return k.point }

func (k CanonicalKey) Bytes() []byte { return k.bytes }

func (k CanonicalKey) Hex() string { return ocpcrypto.BytesToHex(k.bytes) }

func (k CanonicalKey) Equal(o CanonicalKey) bool {
	return bytes.Equal(k.bytes, o.bytes)
}

// Less orders two keys by their compressed bytes, giving CanonicalKey a
// total order suitable for use as a map key or sort key regardless of
// curve-internal representation.
func (k CanonicalKey) Less(o CanonicalKey) bool {
	return bytes.Compare(k.bytes, o.bytes) < 0
}

func (k CanonicalKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Hex())
}

func (k *CanonicalKey) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("ledger: canonical key unmarshal: %w", err)
	}
	key, err := CanonicalKeyFromHex(s)
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// DomainString/SigningBytes let CanonicalKey itself participate as a
// Signable value where a message needs to bind a key's identity (e.g. a
// registration message signing the key it is registering).
func (k CanonicalKey) DomainString() string { return "ledger/canonical_key_v1" }
func (k CanonicalKey) SigningBytes() []byte { return k.bytes }
