package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustHex decodes a hex string or fails the test.
func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

const (
	// secp256k1 group order N and N-1.
	curveOrderHex       = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	curveOrderMinus1Hex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140"

	// The generator point, compressed and uncompressed.
	generatorCompressedHex   = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	generatorUncompressedHex = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
)

// keyOne is the scalar 1 as a 32-byte private key.
func keyOne() []byte {
	priv := make([]byte, PrivateKeyLen)
	priv[PrivateKeyLen-1] = 0x01
	return priv
}

func TestValidatePrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		priv    []byte
		wantErr error
	}{
		{
			name: "smallest valid scalar",
			priv: keyOne(),
		},
		{
			name: "largest valid scalar",
			priv: mustHexBytes(curveOrderMinus1Hex),
		},
		{
			name: "repeated 0x01 bytes",
			priv: bytes.Repeat([]byte{0x01}, PrivateKeyLen),
		},
		{
			name:    "zero scalar",
			priv:    make([]byte, PrivateKeyLen),
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "scalar equal to group order",
			priv:    mustHexBytes(curveOrderHex),
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "scalar above group order",
			priv:    bytes.Repeat([]byte{0xff}, PrivateKeyLen),
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "too short",
			priv:    bytes.Repeat([]byte{0x01}, PrivateKeyLen-1),
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "too long",
			priv:    bytes.Repeat([]byte{0x01}, PrivateKeyLen+1),
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "nil",
			priv:    nil,
			wantErr: ErrInvalidPrivateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrivateKey(tt.priv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGeneratePrivateKey(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	require.Len(t, priv, PrivateKeyLen)
	require.NoError(t, ValidatePrivateKey(priv))

	// Two fresh keys colliding would mean the RNG is broken.
	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	assert.NotEqual(t, priv, other)
}

func TestDerivePublicKey(t *testing.T) {
	t.Run("key one yields the generator point", func(t *testing.T) {
		pub, err := DerivePublicKey(keyOne())
		require.NoError(t, err)
		assert.Equal(t, mustHex(t, generatorCompressedHex), pub)
	})

	t.Run("derivation is deterministic", func(t *testing.T) {
		priv := bytes.Repeat([]byte{0x01}, PrivateKeyLen)

		first, err := DerivePublicKey(priv)
		require.NoError(t, err)
		second, err := DerivePublicKey(priv)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		require.Len(t, first, PublicKeyLen)
		assert.Contains(t, []byte{0x02, 0x03}, first[0],
			"compressed keys carry an even/odd parity prefix")
	})

	t.Run("rejects invalid scalars", func(t *testing.T) {
		_, err := DerivePublicKey(make([]byte, PrivateKeyLen))
		require.ErrorIs(t, err, ErrInvalidPrivateKey)

		_, err = DerivePublicKey(mustHex(t, curveOrderHex))
		require.ErrorIs(t, err, ErrInvalidPrivateKey)
	})
}

func TestDecompressPublicKey(t *testing.T) {
	t.Run("generator point round-trips", func(t *testing.T) {
		pub, err := DecompressPublicKey(mustHex(t, generatorCompressedHex))
		require.NoError(t, err)
		assert.Equal(t, mustHex(t, generatorUncompressedHex), pub)
	})

	t.Run("fresh key round-trips", func(t *testing.T) {
		priv, err := GeneratePrivateKey()
		require.NoError(t, err)
		compressed, err := DerivePublicKey(priv)
		require.NoError(t, err)

		uncompressed, err := DecompressPublicKey(compressed)
		require.NoError(t, err)
		require.Len(t, uncompressed, PublicKeyUncompressedLen)
		assert.Equal(t, byte(0x04), uncompressed[0])
		// X coordinate is unchanged by decompression.
		assert.Equal(t, compressed[1:], uncompressed[1:33])
	})

	tests := []struct {
		name string
		pub  []byte
	}{
		{"uncompressed input", mustHexBytes(generatorUncompressedHex)},
		{"wrong prefix", append([]byte{0x05}, bytes.Repeat([]byte{0x11}, 32)...)},
		{"x not below field prime", append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)},
		{"too short", mustHexBytes(generatorCompressedHex)[:32]},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := DecompressPublicKey(tt.pub)
			require.ErrorIs(t, err, ErrInvalidPublicKey)
		})
	}
}

func TestValidatePublicKey(t *testing.T) {
	t.Run("accepts both encodings", func(t *testing.T) {
		require.NoError(t, ValidatePublicKey(mustHex(t, generatorCompressedHex)))
		require.NoError(t, ValidatePublicKey(mustHex(t, generatorUncompressedHex)))
	})

	t.Run("rejects off-curve point", func(t *testing.T) {
		// Perturbing Y leaves the curve equation unsatisfied.
		pub := mustHex(t, generatorUncompressedHex)
		pub[len(pub)-1] ^= 0x01
		require.ErrorIs(t, ValidatePublicKey(pub), ErrInvalidPublicKey)
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		require.ErrorIs(t, ValidatePublicKey(nil), ErrInvalidPublicKey)
		require.ErrorIs(t, ValidatePublicKey(make([]byte, 32)), ErrInvalidPublicKey)
		require.ErrorIs(t, ValidatePublicKey(make([]byte, 64)), ErrInvalidPublicKey)
	})
}

func TestWIFRoundTrip(t *testing.T) {
	// Private key 1 has well-known WIF encodings.
	t.Run("known vectors for key one", func(t *testing.T) {
		wif, err := PrivateKeyToWIF(keyOne(), false)
		require.NoError(t, err)
		assert.Equal(t, "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf", wif)

		wifCompressed, err := PrivateKeyToWIF(keyOne(), true)
		require.NoError(t, err)
		assert.Equal(t, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", wifCompressed)
	})

	t.Run("round-trips fresh keys", func(t *testing.T) {
		priv, err := GeneratePrivateKey()
		require.NoError(t, err)

		for _, compressed := range []bool{true, false} {
			wif, err := PrivateKeyToWIF(priv, compressed)
			require.NoError(t, err)

			decoded, gotCompressed, err := PrivateKeyFromWIF(wif)
			require.NoError(t, err)
			assert.Equal(t, priv, decoded)
			assert.Equal(t, compressed, gotCompressed)
		}
	})

	t.Run("rejects corruption", func(t *testing.T) {
		wif, err := PrivateKeyToWIF(keyOne(), true)
		require.NoError(t, err)

		// Swap a character so the checksum no longer matches.
		corrupted := []byte(wif)
		if corrupted[10] == 'x' {
			corrupted[10] = 'y'
		} else {
			corrupted[10] = 'x'
		}
		_, _, err = PrivateKeyFromWIF(string(corrupted))
		require.Error(t, err)

		_, _, err = PrivateKeyFromWIF("")
		require.Error(t, err)

		_, _, err = PrivateKeyFromWIF("not a wif")
		require.Error(t, err)
	})

	t.Run("rejects invalid key values", func(t *testing.T) {
		_, err := PrivateKeyToWIF(make([]byte, PrivateKeyLen), true)
		require.ErrorIs(t, err, ErrInvalidPrivateKey)
	})
}

// mustHexBytes is the table-literal variant of mustHex; it panics instead
// of failing a test, so it may seed test case slices.
func mustHexBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
