package decryption

import (
	"testing"

	"github.com/stretchr/testify/require"

	"onchainpoker/internal/ocpcrypto"
)

// TestTwoPhaseDecryptionRecoversCardIndex runs the full committee-blinding
// plus unblinding flow for 3 shufflers and checks the player recovers the
// original deck index without ever learning the committee's secret key.
func TestTwoPhaseDecryptionRecoversCardIndex(t *testing.T) {
	const cardIndex = 17
	table := ocpcrypto.NewIndexTable(52)
	cardPoint := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(cardIndex))

	shufflerSecretShares := []ocpcrypto.Scalar{
		ocpcrypto.ScalarFromUint64(111),
		ocpcrypto.ScalarFromUint64(222),
		ocpcrypto.ScalarFromUint64(333),
	}
	committeeSK := ocpcrypto.ScalarFromUint64(0)
	for _, s := range shufflerSecretShares {
		committeeSK = ocpcrypto.ScalarAdd(committeeSK, s)
	}
	committeePK := ocpcrypto.MulBase(committeeSK)

	r := ocpcrypto.ScalarFromUint64(42)
	original, err := ocpcrypto.ElGamalEncrypt(committeePK, cardPoint, r)
	require.NoError(t, err)

	playerSK := ocpcrypto.ScalarFromUint64(555)
	playerPK := ocpcrypto.MulBase(playerSK)

	var contributions []PlayerBlindingContribution
	for i := range shufflerSecretShares {
		nonce := ocpcrypto.ScalarFromUint64(uint64(1000 + i))
		c, err := MakeBlindingContribution(uint32(i), playerPK, nonce)
		require.NoError(t, err)
		ok, err := VerifyBlindingContribution(c, playerPK)
		require.NoError(t, err)
		require.True(t, ok)
		contributions = append(contributions, c)
	}

	blinded := AggregateBlindingContributions(original, contributions)

	var shares []PartialUnblindingShare
	for i, secretShare := range shufflerSecretShares {
		s, err := MakeUnblindingShare(uint32(i), blinded, secretShare)
		require.NoError(t, err)
		ok, err := VerifyUnblindingShare(s, ocpcrypto.MulBase(secretShare), blinded)
		require.NoError(t, err)
		require.True(t, ok)
		shares = append(shares, s)
	}

	idx, err := RecoverCardIndex(blinded, shares, playerSK, table)
	require.NoError(t, err)
	require.Equal(t, cardIndex, idx)
}

func TestBlindingContributionRejectsWrongTargetKey(t *testing.T) {
	playerPK := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(1))
	wrongPK := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(2))
	nonce := ocpcrypto.ScalarFromUint64(7)

	c, err := MakeBlindingContribution(0, playerPK, nonce)
	require.NoError(t, err)

	ok, err := VerifyBlindingContribution(c, wrongPK)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUnblindingShareRejectsWrongPublicShare(t *testing.T) {
	blinded := PlayerAccessibleCiphertext{
		C1: ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(9)),
		C2: ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(10)),
	}
	secretShare := ocpcrypto.ScalarFromUint64(55)
	s, err := MakeUnblindingShare(0, blinded, secretShare)
	require.NoError(t, err)

	wrongPublic := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(56))
	ok, err := VerifyUnblindingShare(s, wrongPublic, blinded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecoverCardIndexFailsWithWrongPlayerKey(t *testing.T) {
	const cardIndex = 3
	table := ocpcrypto.NewIndexTable(52)
	cardPoint := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(cardIndex))

	shufflerSecretShares := []ocpcrypto.Scalar{ocpcrypto.ScalarFromUint64(10), ocpcrypto.ScalarFromUint64(20)}
	committeeSK := ocpcrypto.ScalarAdd(shufflerSecretShares[0], shufflerSecretShares[1])
	committeePK := ocpcrypto.MulBase(committeeSK)

	original, err := ocpcrypto.ElGamalEncrypt(committeePK, cardPoint, ocpcrypto.ScalarFromUint64(5))
	require.NoError(t, err)

	playerPK := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(900))
	var contributions []PlayerBlindingContribution
	for i, _ := range shufflerSecretShares {
		c, err := MakeBlindingContribution(uint32(i), playerPK, ocpcrypto.ScalarFromUint64(uint64(2000+i)))
		require.NoError(t, err)
		contributions = append(contributions, c)
	}
	blinded := AggregateBlindingContributions(original, contributions)

	var shares []PartialUnblindingShare
	for i, secretShare := range shufflerSecretShares {
		s, err := MakeUnblindingShare(uint32(i), blinded, secretShare)
		require.NoError(t, err)
		shares = append(shares, s)
	}

	_, err = RecoverCardIndex(blinded, shares, ocpcrypto.ScalarFromUint64(901), table)
	require.Error(t, err)
}
