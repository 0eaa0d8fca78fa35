package ocpcrypto

import (
	"encoding/json"
	"fmt"

	"github.com/gtank/ristretto255"
)

const PointBytes = 32

// Point is a ristretto255 group element (canonical 32-byte compressed
// encoding). It mirrors Scalar's value-type shape: cheap to copy, equality
// and serialisation always go through the compressed bytes.
type Point struct {
	v ristretto255.Element
}

// PointIdentity returns the group identity element (the additive "zero").
func PointIdentity() Point {
	var p Point
	p.v.Zero()
	return p
}

// PointBase returns the canonical generator G.
func PointBase() Point {
	var p Point
	p.v.Base()
	return p
}

func PointFromBytesCanonical(b []byte) (Point, error) {
	if len(b) != PointBytes {
		return Point{}, fmt.Errorf("point: expected %d bytes", PointBytes)
	}
	var p Point
	if err := p.v.Decode(b); err != nil {
		return Point{}, fmt.Errorf("point: invalid encoding: %w", err)
	}
	return p, nil
}

func (p Point) Bytes() []byte {
	return p.v.Encode(nil)
}

func (p Point) IsIdentity() bool {
	return p.v.Equal(PointIdentity().ptr()) == 1
}

func (p *Point) ptr() *ristretto255.Element {
	return &p.v
}

// MarshalJSON encodes the point as its compressed hex bytes, the same
// wire shape signing.WithSignature uses for Schnorr signatures.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(BytesToHex(p.Bytes()))
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("point: unmarshal: %w", err)
	}
	raw, err := HexToBytes(s)
	if err != nil {
		return fmt.Errorf("point: decode hex: %w", err)
	}
	decoded, err := PointFromBytesCanonical(raw)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// MulBase returns s*G.
func MulBase(s Scalar) Point {
	var out Point
	out.v.ScalarBaseMult(&s.v)
	return out
}

// MulPoint returns s*P.
func MulPoint(p Point, s Scalar) Point {
	var out Point
	out.v.ScalarMult(&s.v, &p.v)
	return out
}

func PointAdd(a, b Point) Point {
	var out Point
	out.v.Add(&a.v, &b.v)
	return out
}

func PointSub(a, b Point) Point {
	var out Point
	out.v.Subtract(&a.v, &b.v)
	return out
}

func PointNeg(a Point) Point {
	var out Point
	out.v.Negate(&a.v)
	return out
}

func PointEq(a, b Point) bool {
	return a.v.Equal(&b.v) == 1
}

// IndexTable precomputes i*G for i in 1..=n, used by player-targeted
// decryption to recover a card's deck index from a decrypted curve point by
// matching it against the precomputed table.
type IndexTable struct {
	byBytes map[string]int
	max     int
}

func NewIndexTable(max int) *IndexTable {
	t := &IndexTable{byBytes: make(map[string]int, max), max: max}
	acc := ScalarFromUint64(0)
	one := ScalarFromUint64(1)
	for i := 1; i <= max; i++ {
		acc = ScalarAdd(acc, one)
		p := MulBase(acc)
		t.byBytes[string(p.Bytes())] = i
	}
	return t
}

// Lookup returns the index i such that p == i*G, or (0, false) if p is not
// in the table.
func (t *IndexTable) Lookup(p Point) (int, bool) {
	i, ok := t.byBytes[string(p.Bytes())]
	return i, ok
}
