package crypto

import (
	"crypto/subtle"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// PrivateKeyLen is the byte length of a raw private key scalar.
	PrivateKeyLen = 32

	// PublicKeyLen is the byte length of a compressed public key.
	PublicKeyLen = 33

	// PublicKeyUncompressedLen is the byte length of an uncompressed
	// public key.
	PublicKeyUncompressedLen = 65
)

// WIF encoding constants (Bitcoin mainnet).
const (
	wifVersion        = 0x80
	wifCompressedFlag = 0x01
)

// GeneratePrivateKey returns a fresh random private key as 32 raw bytes.
func GeneratePrivateKey() ([]byte, error) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	defer privKey.Zero()
	return privKey.Serialize(), nil
}

// ValidatePrivateKey checks that priv is a 32-byte scalar in [1, N-1].
// The value comparison runs in constant time with respect to the key.
func ValidatePrivateKey(priv []byte) error {
	if len(priv) != PrivateKeyLen {
		return fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidPrivateKey, len(priv), PrivateKeyLen)
	}

	// Both conditions are evaluated before branching so the check does
	// not leak which one failed.
	var k btcec.ModNScalar
	overflow := k.SetByteSlice(priv)
	zero := k.IsZero()
	k.Zero()

	if overflow || zero {
		return fmt.Errorf("%w: scalar is zero or exceeds the group order",
			ErrInvalidPrivateKey)
	}
	return nil
}

// DerivePublicKey computes priv*G and returns the 33-byte compressed
// encoding of the resulting point.
func DerivePublicKey(priv []byte) ([]byte, error) {
	if err := ValidatePrivateKey(priv); err != nil {
		return nil, err
	}

	privKey, _ := btcec.PrivKeyFromBytes(priv)
	defer privKey.Zero()

	return privKey.PubKey().SerializeCompressed(), nil
}

// ValidatePublicKey checks that pub decodes to a point on the curve. Both
// the 33-byte compressed and 65-byte uncompressed encodings are accepted.
func ValidatePublicKey(pub []byte) error {
	if len(pub) != PublicKeyLen && len(pub) != PublicKeyUncompressedLen {
		return fmt.Errorf("%w: got %d bytes, expected %d or %d",
			ErrInvalidPublicKey, len(pub), PublicKeyLen, PublicKeyUncompressedLen)
	}
	if _, err := btcec.ParsePubKey(pub); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return nil
}

// DecompressPublicKey expands a 33-byte compressed public key into the
// 65-byte uncompressed form.
func DecompressPublicKey(pub []byte) ([]byte, error) {
	if len(pub) != PublicKeyLen {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidPublicKey, len(pub), PublicKeyLen)
	}

	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pubKey.SerializeUncompressed(), nil
}

// parsePublicKey decodes pub for the verification paths, mapping decode
// failures onto the public key error kind.
func parsePublicKey(pub []byte) (*btcec.PublicKey, error) {
	if len(pub) != PublicKeyLen && len(pub) != PublicKeyUncompressedLen {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d or %d",
			ErrInvalidPublicKey, len(pub), PublicKeyLen, PublicKeyUncompressedLen)
	}
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pubKey, nil
}

// PrivateKeyToWIF encodes a private key in Wallet Import Format:
// Base58Check(0x80 || key || optional 0x01 compression marker).
func PrivateKeyToWIF(priv []byte, compressed bool) (string, error) {
	if err := ValidatePrivateKey(priv); err != nil {
		return "", err
	}

	data := make([]byte, 0, 1+PrivateKeyLen+1+4)
	data = append(data, wifVersion)
	data = append(data, priv...)
	if compressed {
		data = append(data, wifCompressedFlag)
	}
	data = append(data, checksum(data)...)

	wif := base58.Encode(data)
	ZeroBytes(data)
	return wif, nil
}

// PrivateKeyFromWIF decodes a WIF string, returning the raw 32-byte key
// and whether the WIF carried the compression marker.
func PrivateKeyFromWIF(wif string) ([]byte, bool, error) {
	decoded := base58.Decode(wif)
	defer ZeroBytes(decoded)

	// Version byte + 32-byte key + checksum, plus one optional marker.
	if len(decoded) != 37 && len(decoded) != 38 {
		return nil, false, fmt.Errorf("invalid WIF length: %d", len(decoded))
	}

	data := decoded[:len(decoded)-4]
	if subtle.ConstantTimeCompare(decoded[len(decoded)-4:], checksum(data)) != 1 {
		return nil, false, fmt.Errorf("invalid WIF checksum")
	}

	if data[0] != wifVersion {
		return nil, false, fmt.Errorf("invalid WIF version byte: 0x%02x", data[0])
	}

	compressed := len(data) == 1+PrivateKeyLen+1
	if compressed && data[len(data)-1] != wifCompressedFlag {
		return nil, false, fmt.Errorf("invalid WIF compression marker: 0x%02x", data[len(data)-1])
	}

	priv := make([]byte, PrivateKeyLen)
	copy(priv, data[1:1+PrivateKeyLen])
	if err := ValidatePrivateKey(priv); err != nil {
		ZeroBytes(priv)
		return nil, false, err
	}
	return priv, compressed, nil
}
