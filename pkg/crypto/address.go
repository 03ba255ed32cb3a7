package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// AddressVersion is the pay-to-pubkey-hash version byte (Bitcoin
	// mainnet; addresses start with "1").
	AddressVersion = 0x00

	// addressDecodedLen is version byte + HASH160 + 4-byte checksum.
	addressDecodedLen = 1 + Hash160Len + 4
)

// PubKeyToAddress derives the pay-to-pubkey-hash address for a public
// key: Base58Check(version || HASH160(pub)). Compressed and uncompressed
// keys produce different addresses; both encodings are accepted.
func PubKeyToAddress(pub []byte) (string, error) {
	if err := ValidatePublicKey(pub); err != nil {
		return "", err
	}

	payload := make([]byte, 0, addressDecodedLen)
	payload = append(payload, AddressVersion)
	payload = append(payload, Hash160(pub)...)
	payload = append(payload, checksum(payload)...)

	return base58.Encode(payload), nil
}

// ValidateAddress checks the length, version byte, and checksum of a
// pay-to-pubkey-hash address.
func ValidateAddress(address string) error {
	_, err := AddressPubKeyHash(address)
	return err
}

// AddressPubKeyHash returns the 20-byte public key hash an address pays
// to, after validating its structure and checksum.
func AddressPubKeyHash(address string) ([]byte, error) {
	decoded := base58.Decode(address)
	if len(decoded) != addressDecodedLen {
		return nil, fmt.Errorf("invalid address length: %d bytes", len(decoded))
	}

	payload := decoded[:len(decoded)-4]
	want := checksum(payload)
	got := decoded[len(decoded)-4:]
	for i := range want {
		if got[i] != want[i] {
			return nil, errors.New("invalid address checksum")
		}
	}

	if payload[0] != AddressVersion {
		return nil, fmt.Errorf("invalid address version: 0x%02x", payload[0])
	}

	return payload[1:], nil
}
