package signing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"onchainpoker/internal/ocpcrypto"
)

type testMessage struct {
	Nonce uint64 `json:"nonce"`
}

func (m testMessage) DomainString() string { return "ocp/v1/test-message" }
func (m testMessage) SigningBytes() []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(m.Nonce >> (8 * i))
	}
	return b
}

func TestSignVerifyRoundTrip(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(909090)
	pk := ocpcrypto.MulBase(sk)
	k := ocpcrypto.ScalarFromUint64(17)

	w, err := New(testMessage{Nonce: 7}, sk, k)
	require.NoError(t, err)

	ok, err := Verify(w, pk)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(1)
	other := ocpcrypto.MulBase(ocpcrypto.ScalarFromUint64(2))
	w, err := New(testMessage{Nonce: 3}, sk, ocpcrypto.ScalarFromUint64(5))
	require.NoError(t, err)

	ok, err := Verify(w, other)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsTamperedValue(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(1)
	pk := ocpcrypto.MulBase(sk)
	w, err := New(testMessage{Nonce: 3}, sk, ocpcrypto.ScalarFromUint64(5))
	require.NoError(t, err)

	w.Value.Nonce = 4
	ok, err := Verify(w, pk)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWithSignatureJSONRoundTrip(t *testing.T) {
	sk := ocpcrypto.ScalarFromUint64(42)
	pk := ocpcrypto.MulBase(sk)
	w, err := New(testMessage{Nonce: 99}, sk, ocpcrypto.ScalarFromUint64(6))
	require.NoError(t, err)

	raw, err := json.Marshal(w)
	require.NoError(t, err)

	var decoded WithSignature[testMessage]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, w.Value, decoded.Value)

	ok, err := Verify(decoded, pk)
	require.NoError(t, err)
	require.True(t, ok)
}
