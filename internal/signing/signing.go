// Package signing implements the domain-separated canonical-signing
// discipline used throughout the ledger: every signable value carries a
// constant domain string, and the bytes that get signed are computed
// transiently on sign/verify and never persisted.
package signing

import (
	"encoding/json"
	"fmt"

	"onchainpoker/internal/ocpcrypto"
)

// Signable is any value with a fixed domain-separation string and a
// canonical byte encoding used as the signed message.
type Signable interface {
	DomainString() string
	SigningBytes() []byte
}

// SigningBytes returns the fully domain-separated message that gets signed
// or verified: the value's own canonical bytes, prefixed by its domain
// string so that a signature over one message type can never be replayed
// as a signature over another.
func SigningBytes(v Signable) []byte {
	domain := []byte(v.DomainString())
	body := v.SigningBytes()
	out := make([]byte, 0, len(domain)+1+len(body))
	out = append(out, domain...)
	out = append(out, 0x00)
	out = append(out, body...)
	return out
}

// WithSignature pairs a signable value with its Schnorr signature. The
// signing bytes are deliberately absent from this struct: they are
// recomputed from Value on every Verify call, not cached or persisted,
// which prevents a stale/forged transcript from ever being trusted.
type WithSignature[T Signable] struct {
	Value     T
	Signature ocpcrypto.SchnorrSignature
}

// New signs value with sk using nonce k and wraps the result.
func New[T Signable](value T, sk ocpcrypto.Scalar, k ocpcrypto.Scalar) (WithSignature[T], error) {
	sig, err := ocpcrypto.SchnorrSign(sk, SigningBytes(value), k)
	if err != nil {
		return WithSignature[T]{}, fmt.Errorf("signing: sign: %w", err)
	}
	return WithSignature[T]{Value: value, Signature: sig}, nil
}

// Verify recomputes the signing bytes for w.Value and checks the signature
// against pk. It never trusts a stored transcript.
func Verify[T Signable](w WithSignature[T], pk ocpcrypto.Point) (bool, error) {
	return ocpcrypto.SchnorrVerify(pk, SigningBytes(w.Value), w.Signature)
}

// jsonWithSignature is the wire shape: value marshalled by its own
// json.Marshaler (or struct tags), signature as compressed hex bytes.
type jsonWithSignature struct {
	Value     json.RawMessage `json:"value"`
	Signature string          `json:"signature"`
}

func (w WithSignature[T]) MarshalJSON() ([]byte, error) {
	valueBytes, err := json.Marshal(w.Value)
	if err != nil {
		return nil, fmt.Errorf("signing: marshal value: %w", err)
	}
	return json.Marshal(jsonWithSignature{
		Value:     valueBytes,
		Signature: ocpcrypto.BytesToHex(ocpcrypto.EncodeSchnorrSignature(w.Signature)),
	})
}

func (w *WithSignature[T]) UnmarshalJSON(b []byte) error {
	var raw jsonWithSignature
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("signing: unmarshal envelope: %w", err)
	}
	var value T
	if err := json.Unmarshal(raw.Value, &value); err != nil {
		return fmt.Errorf("signing: unmarshal value: %w", err)
	}
	sigBytes, err := ocpcrypto.HexToBytes(raw.Signature)
	if err != nil {
		return fmt.Errorf("signing: decode signature: %w", err)
	}
	sig, err := ocpcrypto.DecodeSchnorrSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("signing: decode signature: %w", err)
	}
	w.Value = value
	w.Signature = sig
	return nil
}
