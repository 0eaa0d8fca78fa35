// Package decryption implements the two-phase player-targeted decryption
// protocol: committee blinding contributions aggregate into a
// player-accessible ciphertext, then partial unblinding shares let the
// player recover the plaintext card index without any single shuffler
// learning it.
//
// Algebra: let the committee ciphertext be (C1, C2) = (r*G, M + r*PK) for
// aggregate committee key PK. Each shuffler i contributes a fresh nonce
// n_i, publishing N_i = n_i*G and adding n_i*PlayerKey to C2. Separately,
// each shuffler contributes its threshold share of committee decryption
// over the UNCHANGED C1 (not the blinded ciphertext), so the aggregate
// partial-decryption shares sum to committeeSK*C1 = r*PK. Subtracting
// that from the blinded C2 leaves M + N*PlayerKey, where N = sum(n_i).
// Because PlayerKey = playerSK*G, the player removes the remaining term
// by computing playerSK*(sum N_i) — a value only the card's owner can
// form — leaving M alone.
package decryption

import (
	"fmt"

	"onchainpoker/internal/ocpcrypto"
)

func u32le(x uint32) []byte {
	return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
}

// PlayerBlindingContribution is one shuffler's nonce contribution toward
// re-targeting a card ciphertext at a player's key, together with a proof
// that the same secret nonce produced both the public nonce point and the
// C2 addend.
type PlayerBlindingContribution struct {
	ShufflerIndex uint32
	NoncePoint    ocpcrypto.Point // n_i * G, published so the player can later strip it
	C2Addend      ocpcrypto.Point // n_i * PlayerKey, added into the blinded ciphertext's C2
	Proof         ocpcrypto.ChaumPedersenProof
}

// PlayerAccessibleCiphertext is the result of aggregating every shuffler's
// blinding contribution: C1 is unchanged from the committee ciphertext
// (unblinding operates on it directly); C2 carries every contribution's
// addend; NonceSum is the public sum of every contributed nonce point,
// needed by the player to strip the blinding in the final step.
type PlayerAccessibleCiphertext struct {
	C1       ocpcrypto.Point
	C2       ocpcrypto.Point
	NonceSum ocpcrypto.Point
}

// MakeBlindingContribution produces shuffler index idx's contribution
// toward re-targeting a card at targetKey, using a fresh nonce. The
// Chaum-Pedersen proof ties nonce*G to nonce*targetKey so a verifier can
// check the same secret nonce produced both terms without learning it.
func MakeBlindingContribution(idx uint32, targetKey ocpcrypto.Point, nonce ocpcrypto.Scalar) (PlayerBlindingContribution, error) {
	noncePoint := ocpcrypto.MulBase(nonce)
	c2Addend := ocpcrypto.MulPoint(targetKey, nonce)

	w, err := ocpcrypto.HashToScalar("ocp/v1/decryption/blinding-nonce", nonce.Bytes(), u32le(idx))
	if err != nil {
		return PlayerBlindingContribution{}, err
	}
	proof, err := ocpcrypto.ChaumPedersenProve(noncePoint, targetKey, c2Addend, nonce, w)
	if err != nil {
		return PlayerBlindingContribution{}, err
	}
	return PlayerBlindingContribution{ShufflerIndex: idx, NoncePoint: noncePoint, C2Addend: c2Addend, Proof: proof}, nil
}

// VerifyBlindingContribution checks a single contribution's proof.
func VerifyBlindingContribution(c PlayerBlindingContribution, targetKey ocpcrypto.Point) (bool, error) {
	return ocpcrypto.ChaumPedersenVerify(c.NoncePoint, targetKey, c.C2Addend, c.Proof)
}

// AggregateBlindingContributions combines every shuffler's contribution
// with the original committee ciphertext into a PlayerAccessibleCiphertext.
func AggregateBlindingContributions(original ocpcrypto.ElGamalCiphertext, contributions []PlayerBlindingContribution) PlayerAccessibleCiphertext {
	c2 := original.C2
	nonceSum := ocpcrypto.PointIdentity()
	for _, c := range contributions {
		c2 = ocpcrypto.PointAdd(c2, c.C2Addend)
		nonceSum = ocpcrypto.PointAdd(nonceSum, c.NoncePoint)
	}
	return PlayerAccessibleCiphertext{C1: original.C1, C2: c2, NonceSum: nonceSum}
}

// PartialUnblindingShare is one shuffler's threshold share of removing the
// committee's encryption layer, computed over the ciphertext's original
// (unblinded) C1, proven consistent with its public DKG share.
type PartialUnblindingShare struct {
	ShufflerIndex uint32
	Share         ocpcrypto.Point // committeeSecretShare * blinded.C1
	Proof         ocpcrypto.ChaumPedersenProof
}

// MakeUnblindingShare computes shuffler idx's partial decryption share of
// blinded.C1 under its DKG secret share, with a DLEQ proof that the same
// secret produced both the share and the shuffler's known public share
// point.
func MakeUnblindingShare(idx uint32, blinded PlayerAccessibleCiphertext, secretShare ocpcrypto.Scalar) (PartialUnblindingShare, error) {
	publicShare := ocpcrypto.MulBase(secretShare)
	share := ocpcrypto.MulPoint(blinded.C1, secretShare)

	w, err := ocpcrypto.HashToScalar("ocp/v1/decryption/unblinding-nonce", secretShare.Bytes(), u32le(idx))
	if err != nil {
		return PartialUnblindingShare{}, err
	}
	proof, err := ocpcrypto.ChaumPedersenProve(publicShare, blinded.C1, share, secretShare, w)
	if err != nil {
		return PartialUnblindingShare{}, err
	}
	return PartialUnblindingShare{ShufflerIndex: idx, Share: share, Proof: proof}, nil
}

// VerifyUnblindingShare checks a partial unblinding share's proof against
// the shuffler's known public DKG share point (secretShare*G).
func VerifyUnblindingShare(s PartialUnblindingShare, publicShare ocpcrypto.Point, blinded PlayerAccessibleCiphertext) (bool, error) {
	return ocpcrypto.ChaumPedersenVerify(publicShare, blinded.C1, s.Share, s.Proof)
}

// RecoverCardPoint combines every unblinding share, subtracts the combined
// value from the blinded ciphertext's C2 term to undo the committee's
// encryption, then has the player strip the nonce blinding using their own
// secret key — the only party who can form playerSK*NonceSum.
func RecoverCardPoint(blinded PlayerAccessibleCiphertext, shares []PartialUnblindingShare, playerSecretKey ocpcrypto.Scalar) ocpcrypto.Point {
	committeeTerm := ocpcrypto.PointIdentity()
	for _, s := range shares {
		committeeTerm = ocpcrypto.PointAdd(committeeTerm, s.Share)
	}
	afterCommittee := ocpcrypto.PointSub(blinded.C2, committeeTerm)
	playerTerm := ocpcrypto.MulPoint(blinded.NonceSum, playerSecretKey)
	return ocpcrypto.PointSub(afterCommittee, playerTerm)
}

// RecoverCardIndex runs RecoverCardPoint and resolves the plaintext deck
// index via table.
func RecoverCardIndex(blinded PlayerAccessibleCiphertext, shares []PartialUnblindingShare, playerSecretKey ocpcrypto.Scalar, table *ocpcrypto.IndexTable) (int, error) {
	point := RecoverCardPoint(blinded, shares, playerSecretKey)
	idx, ok := table.Lookup(point)
	if !ok {
		return 0, fmt.Errorf("decryption: recovered point does not match any known deck index")
	}
	return idx, nil
}
