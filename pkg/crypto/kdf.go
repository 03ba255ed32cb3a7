// pkg/crypto/kdf.go
package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	// PBKDF2SHA256BlockLen is the output granularity of the SHA-256
	// PBKDF2 variant; derived key lengths must be a non-zero multiple.
	PBKDF2SHA256BlockLen = 32

	// PBKDF2SHA512BlockLen is the output granularity of the SHA-512
	// PBKDF2 variant.
	PBKDF2SHA512BlockLen = 64

	// ScryptBlockLen is the output granularity of the scrypt KDF.
	ScryptBlockLen = 32
)

// PBKDF2HMACSHA256 derives outLen bytes from pass and salt with PBKDF2
// over HMAC-SHA256. outLen must be a non-zero multiple of
// PBKDF2SHA256BlockLen; iterations must be at least 1.
func PBKDF2HMACSHA256(pass, salt []byte, iterations, outLen int) ([]byte, error) {
	if err := checkKDFOutLen(outLen, PBKDF2SHA256BlockLen); err != nil {
		return nil, err
	}
	if iterations < 1 {
		return nil, fmt.Errorf("pbkdf2: iteration count %d must be positive", iterations)
	}
	return pbkdf2.Key(pass, salt, iterations, outLen, sha256.New), nil
}

// PBKDF2HMACSHA512 derives outLen bytes from pass and salt with PBKDF2
// over HMAC-SHA512. outLen must be a non-zero multiple of
// PBKDF2SHA512BlockLen; iterations must be at least 1.
func PBKDF2HMACSHA512(pass, salt []byte, iterations, outLen int) ([]byte, error) {
	if err := checkKDFOutLen(outLen, PBKDF2SHA512BlockLen); err != nil {
		return nil, err
	}
	if iterations < 1 {
		return nil, fmt.Errorf("pbkdf2: iteration count %d must be positive", iterations)
	}
	return pbkdf2.Key(pass, salt, iterations, outLen, sha512.New), nil
}

// Scrypt derives outLen bytes from pass and salt with the scrypt KDF.
// cost must be a power of two greater than one; blockSize and parallelism
// are the usual r and p parameters. outLen must be a non-zero multiple of
// ScryptBlockLen.
func Scrypt(pass, salt []byte, cost, blockSize, parallelism, outLen int) ([]byte, error) {
	if err := checkKDFOutLen(outLen, ScryptBlockLen); err != nil {
		return nil, err
	}
	key, err := scrypt.Key(pass, salt, cost, blockSize, parallelism, outLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	return key, nil
}

// checkKDFOutLen enforces the derived-key length contract shared by the
// KDFs: non-zero and a whole number of blocks.
func checkKDFOutLen(outLen, blockLen int) error {
	if outLen <= 0 || outLen%blockLen != 0 {
		return fmt.Errorf("%w: derived key length %d must be a non-zero multiple of %d",
			ErrShortBuffer, outLen, blockLen)
	}
	return nil
}
