package ocpcrypto

import "fmt"

// SchnorrSignature is a standard Schnorr signature over ristretto255:
// given sk with pk = sk*G, and a nonce k with R = k*G,
//
//	e = H(pk || R || msg)
//	s = k + e*sk
//
// verification checks s*G == R + e*pk.
type SchnorrSignature struct {
	R Point
	S Scalar
}

const schnorrDomain = "ocp/v1/schnorr"

// SchnorrSign signs msg under sk using nonce k (caller-supplied so that
// deterministic or test-fixed nonces are possible; production callers
// should draw k from ScalarRandom).
func SchnorrSign(sk Scalar, msg []byte, k Scalar) (SchnorrSignature, error) {
	if k.IsZero() {
		return SchnorrSignature{}, fmt.Errorf("schnorr: nonce must be non-zero")
	}
	pk := MulBase(sk)
	R := MulBase(k)

	tr := NewTranscript(schnorrDomain)
	_ = tr.AppendMessage("pk", pk.Bytes())
	_ = tr.AppendMessage("r", R.Bytes())
	_ = tr.AppendMessage("msg", msg)
	e, err := tr.ChallengeScalar("e")
	if err != nil {
		return SchnorrSignature{}, err
	}

	s := ScalarAdd(k, ScalarMul(e, sk))
	return SchnorrSignature{R: R, S: s}, nil
}

func SchnorrVerify(pk Point, msg []byte, sig SchnorrSignature) (bool, error) {
	tr := NewTranscript(schnorrDomain)
	_ = tr.AppendMessage("pk", pk.Bytes())
	_ = tr.AppendMessage("r", sig.R.Bytes())
	_ = tr.AppendMessage("msg", msg)
	e, err := tr.ChallengeScalar("e")
	if err != nil {
		return false, err
	}

	lhs := MulBase(sig.S)
	rhs := PointAdd(sig.R, MulPoint(pk, e))
	return PointEq(lhs, rhs), nil
}

// EncodeSchnorrSignature concatenates the compressed commitment point (R,
// 32 bytes) and the response scalar (s, 32 bytes) into the canonical
// on-wire signature encoding.
func EncodeSchnorrSignature(sig SchnorrSignature) []byte {
	return concatBytes(sig.R.Bytes(), sig.S.Bytes())
}

func DecodeSchnorrSignature(b []byte) (SchnorrSignature, error) {
	if len(b) != 64 {
		return SchnorrSignature{}, fmt.Errorf("schnorr: expected 64 bytes")
	}
	r, err := PointFromBytesCanonical(b[:32])
	if err != nil {
		return SchnorrSignature{}, err
	}
	s, err := ScalarFromBytesCanonical(b[32:])
	if err != nil {
		return SchnorrSignature{}, err
	}
	return SchnorrSignature{R: r, S: s}, nil
}
