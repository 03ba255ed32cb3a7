// pkg/crypto/signature.go
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

const (
	// SignatureLen is the byte length of a compact signature (r || s).
	SignatureLen = 64

	// SignatureRecoverableLen is the byte length of a recoverable ECDSA
	// signature (header || r || s).
	SignatureRecoverableLen = 65

	// MessageHashLen is the required byte length of a message digest.
	// Signing operations never hash their input; callers supply the
	// digest.
	MessageHashLen = 32
)

// Scheme selects the signing algorithm and with it the nonce-derivation
// rule. The zero value is not a valid scheme; any value outside the
// defined set is rejected before curve work begins.
type Scheme uint8

const (
	// SchemeECDSA signs with deterministic ECDSA per RFC 6979.
	SchemeECDSA Scheme = 1

	// SchemeSchnorr signs with EC-Schnorr-DCRv0, whose deterministic
	// nonce derivation is deliberately distinct from the ECDSA rule and
	// whose s component admits no valid substitute.
	SchemeSchnorr Scheme = 2
)

// valid reports whether s is one of the defined schemes.
func (s Scheme) valid() bool {
	return s == SchemeECDSA || s == SchemeSchnorr
}

// String returns the scheme name used in logs and CLI flags.
func (s Scheme) String() string {
	switch s {
	case SchemeECDSA:
		return "ecdsa"
	case SchemeSchnorr:
		return "schnorr"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// ParseScheme maps a scheme name to its Scheme value.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "ecdsa":
		return SchemeECDSA, nil
	case "schnorr":
		return SchemeSchnorr, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScheme, name)
	}
}

// Sign produces a 64-byte compact signature over a 32-byte message digest.
// Signing consumes no randomness: both schemes derive their nonce from the
// key and digest, so identical inputs yield byte-identical signatures.
// Canonical low-S form is not part of this contract; callers that require
// it apply NormalizeSignature to the result.
func Sign(priv, hash []byte, scheme Scheme) ([]byte, error) {
	if !scheme.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScheme, uint8(scheme))
	}
	if err := ValidatePrivateKey(priv); err != nil {
		return nil, err
	}
	if len(hash) != MessageHashLen {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidHashLen, len(hash), MessageHashLen)
	}

	privKey, _ := btcec.PrivKeyFromBytes(priv)
	defer privKey.Zero()

	if scheme == SchemeECDSA {
		return signECDSA(privKey, hash)
	}
	return signSchnorr(privKey, hash)
}

// Verify checks a compact signature against a public key and message
// digest under the selected scheme. It returns nil only when the
// signature satisfies the scheme's verification equation;
// ErrVerificationFailed reports a well-formed signature that does not,
// which callers must treat differently from the malformed-input errors.
// High-S ECDSA signatures verify as-is; s is never reinterpreted.
func Verify(pub, hash, sig []byte, scheme Scheme) error {
	if !scheme.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidScheme, uint8(scheme))
	}
	if len(hash) != MessageHashLen {
		return fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidHashLen, len(hash), MessageHashLen)
	}

	pubKey, err := parsePublicKey(pub)
	if err != nil {
		return err
	}
	r, s, err := splitCompactSig(sig)
	if err != nil {
		return err
	}

	if scheme == SchemeECDSA {
		if !ecdsa.NewSignature(&r, &s).Verify(hash, pubKey) {
			return ErrVerificationFailed
		}
		return nil
	}

	schnorrSig, err := schnorr.ParseSignature(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !schnorrSig.Verify(hash, pubKey) {
		return ErrVerificationFailed
	}
	return nil
}

// SignRecoverable produces the 65-byte header || r || s signature form the
// Bitcoin signed-message convention transports. The header byte encodes
// the recovery ID plus 27, with 4 added to mark that the signing key's
// public key is compressed.
func SignRecoverable(priv, hash []byte) ([]byte, error) {
	if err := ValidatePrivateKey(priv); err != nil {
		return nil, err
	}
	if len(hash) != MessageHashLen {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidHashLen, len(hash), MessageHashLen)
	}

	privKey, _ := btcec.PrivKeyFromBytes(priv)
	defer privKey.Zero()

	sig, err := ecdsa.SignCompact(privKey, hash, true)
	if err != nil {
		return nil, fmt.Errorf("ecdsa compact sign: %w", err)
	}
	return sig, nil
}

// RecoverPublicKey recovers the 33-byte compressed public key that signed
// hash from a 65-byte recoverable signature.
func RecoverPublicKey(hash, sig []byte) ([]byte, error) {
	if len(hash) != MessageHashLen {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidHashLen, len(hash), MessageHashLen)
	}
	if len(sig) != SignatureRecoverableLen {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidSignature, len(sig), SignatureRecoverableLen)
	}

	// Header bytes run 27..30 for uncompressed keys and 31..34 for
	// compressed ones.
	if sig[0] < 27 || sig[0] > 34 {
		return nil, fmt.Errorf("%w: header byte 0x%02x out of range",
			ErrInvalidSignature, sig[0])
	}

	pubKey, _, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return pubKey.SerializeCompressed(), nil
}

func signECDSA(privKey *btcec.PrivateKey, hash []byte) ([]byte, error) {
	// The compact-with-recovery form is header || r || s; dropping the
	// header leaves the plain 64-byte signature.
	sig, err := ecdsa.SignCompact(privKey, hash, true)
	if err != nil {
		return nil, fmt.Errorf("ecdsa sign: %w", err)
	}
	return sig[1:], nil
}

func signSchnorr(privKey *btcec.PrivateKey, hash []byte) ([]byte, error) {
	sig, err := schnorr.Sign(privKey, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// splitCompactSig parses the r and s components of a 64-byte compact
// signature, range-checking both against [1, N-1].
func splitCompactSig(sig []byte) (r, s btcec.ModNScalar, err error) {
	if len(sig) != SignatureLen {
		err = fmt.Errorf("%w: got %d bytes, expected %d",
			ErrInvalidSignature, len(sig), SignatureLen)
		return
	}
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		err = fmt.Errorf("%w: r is zero or exceeds the group order", ErrInvalidSignature)
		return
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		err = fmt.Errorf("%w: s is zero or exceeds the group order", ErrInvalidSignature)
		return
	}
	return
}
