package keypair

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shellreserve/hdwallet/base58check"
	"github.com/shellreserve/hdwallet/chaincfg"
)

func TestNewFromPrivateKeyHexDerivesPublicKeyEagerly(t *testing.T) {
	privHex := "0000000000000000000000000000000000000000000000000000000000000001"
	kp, err := NewFromPrivateKeyHex(privHex, true, chaincfg.MainNetParams)
	require.NoError(t, err)
	require.False(t, kp.IsNeutered())
	require.Len(t, kp.PubkeyBytes(), 33)
}

func TestNewFromPublicKeyBytesInfersCompression(t *testing.T) {
	priv, err := NewFromPrivateKeyHex("0000000000000000000000000000000000000000000000000000000000000001", true, chaincfg.MainNetParams)
	require.NoError(t, err)

	pub, err := NewFromPublicKeyBytes(priv.PubkeyBytes(), chaincfg.MainNetParams)
	require.NoError(t, err)
	require.True(t, pub.Compressed())
	require.True(t, pub.IsNeutered())
}

func TestWIFRoundTripCompressed(t *testing.T) {
	privHex := "ba8c65b5e47143979b3506a742b4bd95c1ddb419195915c3679e38e9bffbeb45"
	kp, err := NewFromPrivateKeyHex(privHex, true, chaincfg.MainNetParams)
	require.NoError(t, err)

	wif, err := kp.ToWIF()
	require.NoError(t, err)
	require.Equal(t, "L3ULUjNr4gfjcxFEJVo6bETbDvY6Z3wwU5oribqt692o9a5SHV2R", wif)

	decoded, err := FromWIF(wif)
	require.NoError(t, err)
	require.True(t, decoded.Compressed())

	origPriv, _ := kp.PrivateKey()
	newPriv, _ := decoded.PrivateKey()
	require.Equal(t, 0, origPriv.Cmp(newPriv))
}

func TestWIFRoundTripUncompressed(t *testing.T) {
	privHex := "ba8c65b5e47143979b3506a742b4bd95c1ddb419195915c3679e38e9bffbeb45"
	kp, err := NewFromPrivateKeyHex(privHex, false, chaincfg.MainNetParams)
	require.NoError(t, err)

	wif, err := kp.ToWIF()
	require.NoError(t, err)
	require.Equal(t, "5KESiB48wksvA4141nwrJGjjC5szu81fd3T2J8SaKqVW2zmxdCr", wif)

	decoded, err := FromWIF(wif)
	require.NoError(t, err)
	require.False(t, decoded.Compressed())
}

func TestToWIFOnNeuteredFails(t *testing.T) {
	kp, err := NewFromPrivateKeyHex("0000000000000000000000000000000000000000000000000000000000000001", true, chaincfg.MainNetParams)
	require.NoError(t, err)
	neutered := kp.Neuter()

	_, err = neutered.ToWIF()
	require.True(t, errors.Is(err, ErrNoPrivateKey))
}

func TestSignOnNeuteredFails(t *testing.T) {
	kp, err := NewFromPrivateKeyHex("0000000000000000000000000000000000000000000000000000000000000001", true, chaincfg.MainNetParams)
	require.NoError(t, err)
	neutered := kp.Neuter()

	digest := sha256.Sum256([]byte("x"))
	_, _, err = neutered.Sign(digest)
	require.True(t, errors.Is(err, ErrNoPrivateKey))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := NewFromPrivateKeyHex("73d286994b2ac1a0f160fb45816c1dd6605551eb0ea12d5595a440a3665ef89d", true, chaincfg.MainNetParams)
	require.NoError(t, err)

	for _, msg := range []string{"hello", "world", "shell reserve"} {
		digest := sha256.Sum256([]byte(msg))
		r, s, err := kp.Sign(digest)
		require.NoError(t, err)

		ok, err := kp.Verify(digest, r, s)
		require.NoError(t, err)
		require.True(t, ok, "message %q should verify", msg)
	}
}

func TestAddressDependsOnCompression(t *testing.T) {
	privHex := "0000000000000000000000000000000000000000000000000000000000000001"
	compressed, err := NewFromPrivateKeyHex(privHex, true, chaincfg.MainNetParams)
	require.NoError(t, err)
	uncompressed, err := NewFromPrivateKeyHex(privHex, false, chaincfg.MainNetParams)
	require.NoError(t, err)

	require.NotEqual(t, compressed.Address(), uncompressed.Address())
}

func TestEqualComparesFullTuple(t *testing.T) {
	privHex := "0000000000000000000000000000000000000000000000000000000000000001"
	a, err := NewFromPrivateKeyHex(privHex, true, chaincfg.MainNetParams)
	require.NoError(t, err)
	b, err := NewFromPrivateKeyHex(privHex, true, chaincfg.MainNetParams)
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	c, err := NewFromPrivateKeyHex(privHex, true, chaincfg.TestNetParams)
	require.NoError(t, err)
	require.False(t, a.Equal(c))
}

func TestNewFromPrivateKeyBytesRejectsWrongLength(t *testing.T) {
	_, err := NewFromPrivateKeyBytes([]byte{1, 2, 3}, true, chaincfg.MainNetParams)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestFromWIFRejectsUnsupportedNetwork(t *testing.T) {
	// Decode a valid WIF then corrupt nothing — instead build a payload
	// whose version byte matches no registered network.
	payload := make([]byte, 33)
	payload[0] = 0x99
	copy(payload[1:], mustHexDecode(t, "0000000000000000000000000000000000000000000000000000000000000001"))
	encoded := base58check.Encode(payload)

	_, err := FromWIF(encoded)
	require.Error(t, err)
}

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
