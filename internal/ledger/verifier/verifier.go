// Package verifier runs the ordered checks a submitted envelope must pass
// before it is admitted to a hand's queue: actor identity, signature,
// nonce monotonicity, and phase permission. Proof-shaped checks are left to
// Apply, since they require the full current snapshot rather than just the
// envelope and registry: Apply checks shuffle audit proofs and partial
// unblinding shares' DLEQ proofs; blinding contributions' DLEQ proofs are
// not checked.
package verifier

import (
	"fmt"

	"onchainpoker/internal/ledger"
	"onchainpoker/internal/signing"
)

// ErrorKind taxonomizes why an envelope was rejected, so callers (and
// audit logs) can distinguish a malformed submission from a stale nonce
// from a phase violation without parsing error strings.
type ErrorKind uint8

const (
	ErrorUnknownActor ErrorKind = iota
	ErrorBadSignature
	ErrorStaleNonce
	ErrorWrongPhase
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorUnknownActor:
		return "unknown_actor"
	case ErrorBadSignature:
		return "bad_signature"
	case ErrorStaleNonce:
		return "stale_nonce"
	case ErrorWrongPhase:
		return "wrong_phase"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// VerifyError is the typed rejection reason, Reason carrying a
// human-readable detail alongside the machine-checkable Kind.
type VerifyError struct {
	Kind   ErrorKind
	Reason string
}

func (e *VerifyError) Error() string { return fmt.Sprintf("verifier: %s: %s", e.Kind, e.Reason) }

// Registry resolves an actor's current public key and last-seen nonce, so
// the verifier never trusts values carried on the envelope itself.
type Registry interface {
	ActorKey(actor ledger.AnyActor) (ledger.CanonicalKey, bool)
	LastNonce(key ledger.NonceKey) uint64
}

// Verify runs every ordered check against env and currentPhase, returning
// a *VerifyError (not a plain error) on rejection so callers can switch on
// Kind.
func Verify(reg Registry, currentPhase ledger.Phase, env ledger.Envelope) *VerifyError {
	key, ok := reg.ActorKey(env.Actor)
	if !ok {
		return &VerifyError{Kind: ErrorUnknownActor, Reason: fmt.Sprintf("no registered key for %s", env.Actor)}
	}

	ok2, err := signing.Verify(env.Message, key.Point())
	if err != nil || !ok2 {
		return &VerifyError{Kind: ErrorBadSignature, Reason: "signature verification failed"}
	}

	nonceKey := env.Actor.NonceKey(env.HandId)
	last := reg.LastNonce(nonceKey)
	if env.Nonce <= last {
		return &VerifyError{Kind: ErrorStaleNonce, Reason: fmt.Sprintf("nonce %d not greater than last seen %d", env.Nonce, last)}
	}

	wantPhase := env.Message.Value.Kind.Phase()
	if wantPhase != currentPhase {
		return &VerifyError{Kind: ErrorWrongPhase, Reason: fmt.Sprintf("message kind %s illegal in phase %s", env.Message.Value.Kind, currentPhase)}
	}

	return nil
}
