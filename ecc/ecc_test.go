package ecc

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarFromBytesRejectsZero(t *testing.T) {
	_, err := ScalarFromBytes(make([]byte, 32))
	require.True(t, errors.Is(err, ErrInvalidScalar))
}

func TestScalarFromBytesRejectsOverflow(t *testing.T) {
	// secp256k1 order n = FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFE
	// BAAEDCE6 AF48A03B BFD25E8C D0364141; anything >= n must be rejected.
	overflow, err := hex.DecodeString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF")
	require.NoError(t, err)
	_, err = ScalarFromBytes(overflow)
	require.True(t, errors.Is(err, ErrInvalidScalar))
}

func TestScalarFromBytesRejectsWrongLength(t *testing.T) {
	_, err := ScalarFromBytes([]byte{0x01, 0x02})
	require.True(t, errors.Is(err, ErrInvalidScalar))
}

func TestPubkeyFromScalarCompressionFlag(t *testing.T) {
	k, err := ScalarFromBytes(mustBytes(t, "01"))
	require.NoError(t, err)

	compressed := PubkeyFromScalar(k, true)
	require.Len(t, compressed, 33)
	require.Contains(t, []byte{0x02, 0x03}, compressed[0])

	uncompressed := PubkeyFromScalar(k, false)
	require.Len(t, uncompressed, 65)
	require.Equal(t, byte(0x04), uncompressed[0])
}

func TestIsCompressed(t *testing.T) {
	compressedOK, err := IsCompressed(append([]byte{0x02}, make([]byte, 32)...))
	require.NoError(t, err)
	require.True(t, compressedOK)

	uncompressedOK, err := IsCompressed(append([]byte{0x04}, make([]byte, 64)...))
	require.NoError(t, err)
	require.False(t, uncompressedOK)

	_, err = IsCompressed(make([]byte, 10))
	require.True(t, errors.Is(err, ErrInvalidPubkey))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	k, err := ScalarFromBytes(mustBytes(t, "01"))
	require.NoError(t, err)
	pub := PubkeyFromScalar(k, true)

	digest := sha256.Sum256([]byte("hello shell reserve"))
	r, s, err := Sign(k, digest)
	require.NoError(t, err)

	ok, err := Verify(pub, digest, r, s)
	require.NoError(t, err)
	require.True(t, ok)

	otherDigest := sha256.Sum256([]byte("different message"))
	ok, err = Verify(pub, otherDigest, r, s)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExternalEcdsaVerifyVector(t *testing.T) {
	privHex := "73d286994b2ac1a0f160fb45816c1dd6605551eb0ea12d5595a440a3665ef89d"
	priv, err := ScalarFromBytes(mustBytes(t, privHex))
	require.NoError(t, err)
	pub := PubkeyFromScalar(priv, true)

	digest := sha256.Sum256([]byte("Bitcoin: A Peer-to-Peer Electronic Cash System"))

	r, ok := new(big.Int).SetString("16585169871999922969978897389792393736153195404500074220463475545187239063880", 10)
	require.True(t, ok)
	s, ok := new(big.Int).SetString("101989596681849864701598391615792467471854786825375833846457837318456308008154", 10)
	require.True(t, ok)

	valid, err := Verify(pub, digest, r, s)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestCombinePubkeysMatchesDirectScalarAddition(t *testing.T) {
	a, err := ScalarFromBytes(mustBytes(t, "05"))
	require.NoError(t, err)
	b, err := ScalarFromBytes(mustBytes(t, "07"))
	require.NoError(t, err)

	combined, err := CombinePubkeys(a, PubkeyFromScalar(b, true))
	require.NoError(t, err)

	sum := AddScalars(a, b)
	direct := PubkeyFromScalar(sum, true)

	require.Equal(t, direct, combined)
}

func mustBytes(t *testing.T, hexStr string) []byte {
	t.Helper()
	if len(hexStr)%2 == 1 {
		hexStr = "0" + hexStr
	}
	padded := make([]byte, 64-len(hexStr))
	for i := range padded {
		padded[i] = '0'
	}
	b, err := hex.DecodeString(string(padded) + hexStr)
	require.NoError(t, err)
	return b
}
