// pkg/crypto/hash.go
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160"
)

// Digest lengths produced by the hash helpers.
const (
	// SHA256Len is the byte length of a SHA-256 digest.
	SHA256Len = 32

	// SHA512Len is the byte length of a SHA-512 digest.
	SHA512Len = 64

	// Hash160Len is the byte length of a RIPEMD160(SHA256) digest.
	Hash160Len = 20

	// HMACSHA256Len is the byte length of an HMAC-SHA256 tag.
	HMACSHA256Len = 32

	// HMACSHA512Len is the byte length of an HMAC-SHA512 tag.
	HMACSHA512Len = 64
)

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) []byte {
	return chainhash.HashB(data)
}

// SHA256d returns SHA-256 applied twice, the Bitcoin checksum hash.
func SHA256d(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

// SHA512 returns the SHA-512 digest of data.
func SHA512(data []byte) []byte {
	digest := sha512.Sum512(data)
	return digest[:]
}

// Hash160 returns RIPEMD160(SHA256(data)), the 20-byte digest behind
// pay-to-pubkey-hash addresses.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// HMACSHA256 returns the HMAC-SHA256 tag of data under key.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HMACSHA512 returns the HMAC-SHA512 tag of data under key.
func HMACSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
