package ocpcrypto

import (
	"crypto/sha512"
	"fmt"
)

var transcriptPrefix = []byte("OCPv1|transcript|")

// Transcript is a Fiat-Shamir transcript. It stores the accumulated bytes
// rather than a mutable hash state, since Go's sha512 implementation does
// not support cloning mid-stream. Three call sites in this module build
// one: ChaumPedersenProve/Verify and SchnorrSign/Verify each open a fresh
// transcript per call, while ocpshuffle's RPC audit challenge opens one
// shared transcript over the committed shuffle rounds and then Clones it
// once per round so each round's challenge is independent of the others'.
type Transcript struct {
	state []byte
}

func NewTranscript(domainSep string) *Transcript {
	dst := []byte(domainSep)
	st := make([]byte, 0, len(transcriptPrefix)+4+len(dst))
	st = append(st, transcriptPrefix...)
	st = append(st, u32le(uint32(len(dst)))...)
	st = append(st, dst...)
	return &Transcript{state: st}
}

func (t *Transcript) AppendMessage(label string, msg []byte) error {
	if t == nil {
		return fmt.Errorf("transcript: nil receiver")
	}
	if msg == nil {
		return fmt.Errorf("transcript: nil msg")
	}
	lb := []byte(label)
	t.state = append(t.state, []byte("msg")...)
	t.state = append(t.state, u32le(uint32(len(lb)))...)
	t.state = append(t.state, lb...)
	t.state = append(t.state, u32le(uint32(len(msg)))...)
	t.state = append(t.state, msg...)
	return nil
}

// Clone returns an independent copy of the transcript's accumulated
// state, so a caller can branch off several distinct challenges (e.g. one
// per audit round) from a shared prefix without the branches interfering.
func (t *Transcript) Clone() *Transcript {
	st := make([]byte, len(t.state))
	copy(st, t.state)
	return &Transcript{state: st}
}

func (t *Transcript) ChallengeScalar(label string) (Scalar, error) {
	if t == nil {
		return Scalar{}, fmt.Errorf("transcript: nil receiver")
	}
	lb := []byte(label)
	h := sha512.New()
	h.Write(t.state)
	h.Write([]byte("challenge"))
	h.Write(u32le(uint32(len(lb))))
	h.Write(lb)
	digest := h.Sum(nil)
	return ScalarFromUniformBytes(digest)
}
