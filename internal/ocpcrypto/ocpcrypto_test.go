package ocpcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarArithmeticRoundTrip(t *testing.T) {
	a := ScalarFromUint64(7)
	b := ScalarFromUint64(11)
	sum := ScalarAdd(a, b)
	require.True(t, sum.Equal(ScalarFromUint64(18)))

	diff := ScalarSub(sum, b)
	require.True(t, diff.Equal(a))

	inv, err := ScalarInv(a)
	require.NoError(t, err)
	require.True(t, ScalarMul(a, inv).Equal(ScalarFromUint64(1)))
}

func TestPointEncodeDecodeRoundTrip(t *testing.T) {
	s := ScalarFromUint64(42)
	p := MulBase(s)
	decoded, err := PointFromBytesCanonical(p.Bytes())
	require.NoError(t, err)
	require.True(t, PointEq(p, decoded))
}

func TestElGamalEncryptDecryptRoundTrip(t *testing.T) {
	sk := ScalarFromUint64(1234567)
	pk := MulBase(sk)
	msg := MulBase(ScalarFromUint64(99))
	r := ScalarFromUint64(555)

	ct, err := ElGamalEncrypt(pk, msg, r)
	require.NoError(t, err)

	got := ElGamalDecrypt(sk, ct)
	require.True(t, PointEq(got, msg))
}

func TestElGamalReencryptPreservesPlaintext(t *testing.T) {
	sk := ScalarFromUint64(77)
	pk := MulBase(sk)
	msg := MulBase(ScalarFromUint64(3))
	ct, err := ElGamalEncrypt(pk, msg, ScalarFromUint64(9))
	require.NoError(t, err)

	reenc := ElGamalReencrypt(pk, ct, ScalarFromUint64(17))
	require.True(t, PointEq(ElGamalDecrypt(sk, reenc), msg))
}

func TestChaumPedersenProveVerify(t *testing.T) {
	x := ScalarFromUint64(321)
	y := MulBase(x)
	c1 := MulBase(ScalarFromUint64(5))
	d := MulPoint(c1, x)

	proof, err := ChaumPedersenProve(y, c1, d, x, ScalarFromUint64(13))
	require.NoError(t, err)

	ok, err := ChaumPedersenVerify(y, c1, d, proof)
	require.NoError(t, err)
	require.True(t, ok)

	// Tampering with the proof's response scalar must invalidate it.
	bad := proof
	bad.S = ScalarAdd(bad.S, ScalarFromUint64(1))
	ok, err = ChaumPedersenVerify(y, c1, d, bad)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestChaumPedersenEncodeDecodeRoundTrip(t *testing.T) {
	x := ScalarFromUint64(8)
	y := MulBase(x)
	c1 := MulBase(ScalarFromUint64(2))
	d := MulPoint(c1, x)
	proof, err := ChaumPedersenProve(y, c1, d, x, ScalarFromUint64(4))
	require.NoError(t, err)

	encoded := EncodeChaumPedersenProof(proof)
	decoded, err := DecodeChaumPedersenProof(encoded)
	require.NoError(t, err)
	require.Equal(t, proof, decoded)
}

func TestIndexTableLookup(t *testing.T) {
	table := NewIndexTable(52)
	for i := 1; i <= 52; i++ {
		p := MulBase(ScalarFromUint64(uint64(i)))
		got, ok := table.Lookup(p)
		require.True(t, ok)
		require.Equal(t, i, got)
	}
	_, ok := table.Lookup(MulBase(ScalarFromUint64(1000)))
	require.False(t, ok)
}

func TestFeldmanShareVerification(t *testing.T) {
	secret := ScalarFromUint64(555)
	poly := NewFeldmanPolynomial(secret, []Scalar{ScalarFromUint64(3), ScalarFromUint64(9)})
	commitments := poly.Commitments()

	share2, err := poly.Evaluate(2)
	require.NoError(t, err)
	require.True(t, VerifyFeldmanShare(commitments, 2, share2))

	tampered := ScalarAdd(share2, ScalarFromUint64(1))
	require.False(t, VerifyFeldmanShare(commitments, 2, tampered))
}

func TestLagrangeReconstructsSecret(t *testing.T) {
	secret := ScalarFromUint64(4242)
	poly := NewFeldmanPolynomial(secret, []Scalar{ScalarFromUint64(17), ScalarFromUint64(31)})

	indices := []uint32{1, 2, 3}
	shares := make([]Scalar, len(indices))
	for i, idx := range indices {
		s, err := poly.Evaluate(idx)
		require.NoError(t, err)
		shares[i] = s
	}

	reconstructed, err := ReconstructSecret(indices, shares)
	require.NoError(t, err)
	require.True(t, reconstructed.Equal(secret))
}
