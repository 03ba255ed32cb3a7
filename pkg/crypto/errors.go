// pkg/crypto/errors.go

// Package crypto implements the secp256k1 signature layer used by
// Bitcoin-style wallets: private key validation, public key derivation,
// deterministic ECDSA and Schnorr signing over 32-byte digests, low-S
// canonicalization, strict DER conversion, and Bitcoin signed-message
// formatting. The hash, HMAC, and key-derivation helpers the signature
// operations rely on are exposed alongside them.
//
// Every operation is a pure function over caller-owned byte slices; the
// package keeps no state between calls and is safe for concurrent use.
package crypto

import "errors"

// Error kinds reported by the signature layer. Callers match them with
// errors.Is; returned errors wrap these with call-site detail.
var (
	// ErrInvalidPrivateKey is returned when a private key is not exactly
	// 32 bytes, or its value is zero or not below the curve order.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey is returned when public key bytes do not decode
	// to a point on the curve.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidSignature is returned when a compact signature has the
	// wrong length or an r or s component outside [1, N-1].
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidScheme is returned when a Scheme value is outside the
	// defined set.
	ErrInvalidScheme = errors.New("invalid signature scheme")

	// ErrInvalidEncoding is returned when DER signature bytes are
	// structurally malformed.
	ErrInvalidEncoding = errors.New("invalid DER encoding")

	// ErrInvalidHashLen is returned when a message digest is not exactly
	// MessageHashLen bytes.
	ErrInvalidHashLen = errors.New("invalid message hash length")

	// ErrMessageTooLarge is returned when a signed-message payload exceeds
	// MaxMessageLen bytes.
	ErrMessageTooLarge = errors.New("message exceeds maximum length")

	// ErrShortBuffer is returned when a requested output length does not
	// satisfy an operation's length contract.
	ErrShortBuffer = errors.New("output length does not match contract")

	// ErrVerificationFailed is returned when a well-formed signature does
	// not satisfy the verification equation. It reports an outcome, not a
	// malformed input, and callers must treat it as distinct from the
	// validation errors above.
	ErrVerificationFailed = errors.New("signature verification failed")
)
