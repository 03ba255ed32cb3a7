package crypto

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// highSVariant returns sig with its s component replaced by N-s.
func highSVariant(t *testing.T, sig []byte) []byte {
	t.Helper()
	out := make([]byte, SignatureLen)
	copy(out, sig)

	var s btcec.ModNScalar
	overflow := s.SetByteSlice(sig[32:])
	require.False(t, overflow)
	s.Negate()
	s.PutBytesUnchecked(out[32:])
	return out
}

func TestNormalizeSignature(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	pub, err := DerivePublicKey(priv)
	require.NoError(t, err)
	hash := testDigest("normalize")

	sig, err := Sign(priv, hash, SchemeECDSA)
	require.NoError(t, err)

	t.Run("is idempotent", func(t *testing.T) {
		once, err := NormalizeSignature(sig)
		require.NoError(t, err)
		twice, err := NormalizeSignature(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("result is low-S and r is untouched", func(t *testing.T) {
		normalized, err := NormalizeSignature(highSVariant(t, sig))
		require.NoError(t, err)

		assert.Equal(t, sig[:32], normalized[:32])

		var s btcec.ModNScalar
		s.SetByteSlice(normalized[32:])
		assert.False(t, s.IsOverHalfOrder())

		canonical, err := IsCanonicalSignature(normalized)
		require.NoError(t, err)
		assert.True(t, canonical)
	})

	t.Run("high-S folds back to the signed form", func(t *testing.T) {
		// The backend emits low-S, so normalizing the negated variant
		// must land exactly on the original bytes.
		normalized, err := NormalizeSignature(highSVariant(t, sig))
		require.NoError(t, err)
		assert.Equal(t, sig, normalized)
	})

	t.Run("normalized signatures still verify", func(t *testing.T) {
		normalized, err := NormalizeSignature(highSVariant(t, sig))
		require.NoError(t, err)
		require.NoError(t, Verify(pub, hash, normalized, SchemeECDSA))
	})
}

func TestNormalizeSignatureRejectsInvalid(t *testing.T) {
	valid, err := Sign(mustHexBytes(curveOrderMinus1Hex), testDigest("reject"), SchemeECDSA)
	require.NoError(t, err)

	tests := []struct {
		name string
		sig  []byte
	}{
		{"nil", nil},
		{"short", valid[:SignatureLen-1]},
		{"long", append(append([]byte{}, valid...), 0x00)},
		{"zero r", append(make([]byte, 32), valid[32:]...)},
		{"zero s", append(append([]byte{}, valid[:32]...), make([]byte, 32)...)},
		{"r at group order", append(mustHexBytes(curveOrderHex), valid[32:]...)},
		{"s at group order", append(append([]byte{}, valid[:32]...), mustHexBytes(curveOrderHex)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSignature(tt.sig)
			require.ErrorIs(t, err, ErrInvalidSignature)

			_, err = IsCanonicalSignature(tt.sig)
			require.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}
