package ocpcrypto

import (
	"encoding/json"
	"fmt"

	"github.com/gtank/ristretto255"
)

const ScalarBytes = 32

// Scalar is a ristretto255 scalar (canonical 32-byte little-endian encoding).
type Scalar struct {
	v ristretto255.Scalar
}

func ScalarZero() Scalar {
	return Scalar{}
}

func ScalarFromUint64(x uint64) Scalar {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(x >> (8 * i))
	}
	var s Scalar
	if _, err := s.v.SetCanonicalBytes(b[:]); err == nil {
		return s
	}
	var uni [64]byte
	copy(uni[:], b[:])
	s.v.FromUniformBytes(uni[:])
	return s
}

func ScalarFromBytesCanonical(b []byte) (Scalar, error) {
	if len(b) != ScalarBytes {
		return Scalar{}, fmt.Errorf("scalar: expected %d bytes", ScalarBytes)
	}
	var s Scalar
	if _, err := s.v.SetCanonicalBytes(b); err != nil {
		return Scalar{}, fmt.Errorf("scalar: non-canonical: %w", err)
	}
	return s, nil
}

func ScalarFromUniformBytes(b []byte) (Scalar, error) {
	if len(b) != 64 {
		return Scalar{}, fmt.Errorf("scalar: expected 64 uniform bytes")
	}
	var s Scalar
	s.v.FromUniformBytes(b)
	return s, nil
}

// ScalarRandom draws a scalar from cryptographically secure randomness via
// the 64-byte uniform-bytes reduction path; callers needing determinism use
// HashToScalar or the shuffle package's DeterministicRng instead.
func ScalarRandom(randReader interface{ Read([]byte) (int, error) }) (Scalar, error) {
	var uni [64]byte
	if _, err := randReader.Read(uni[:]); err != nil {
		return Scalar{}, fmt.Errorf("scalar: random read: %w", err)
	}
	var s Scalar
	s.v.FromUniformBytes(uni[:])
	return s, nil
}

func (s Scalar) Bytes() []byte {
	return s.v.Bytes()
}

func (s Scalar) IsZero() bool {
	var z ristretto255.Scalar
	return s.v.Equal(&z) == 1
}

// MarshalJSON encodes the scalar as its canonical hex bytes.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(BytesToHex(s.Bytes()))
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("scalar: unmarshal: %w", err)
	}
	raw, err := HexToBytes(str)
	if err != nil {
		return fmt.Errorf("scalar: decode hex: %w", err)
	}
	decoded, err := ScalarFromBytesCanonical(raw)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

func (s Scalar) Equal(o Scalar) bool {
	return s.v.Equal(&o.v) == 1
}

func ScalarAdd(a, b Scalar) Scalar {
	var out Scalar
	out.v.Add(&a.v, &b.v)
	return out
}

func ScalarSub(a, b Scalar) Scalar {
	var out Scalar
	out.v.Subtract(&a.v, &b.v)
	return out
}

func ScalarMul(a, b Scalar) Scalar {
	var out Scalar
	out.v.Multiply(&a.v, &b.v)
	return out
}

func ScalarNeg(a Scalar) Scalar {
	var out Scalar
	out.v.Negate(&a.v)
	return out
}

func ScalarInv(a Scalar) (Scalar, error) {
	if a.IsZero() {
		return Scalar{}, fmt.Errorf("scalar: inverse of zero")
	}
	var out Scalar
	out.v.Invert(&a.v)
	return out, nil
}
