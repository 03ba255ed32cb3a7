// Package signer orchestrates the Bitcoin signed-message flows on top of
// the crypto package: format, hash, sign, and the three verification
// shapes (by public key, by address, and the raw digest check).
package signer

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftdevices/wallycore/pkg/crypto"
	"github.com/shiftdevices/wallycore/pkg/logging"
)

// SignedMessage is the result of signing a message payload. Compact and
// DER carry the same signature in both interchange encodings; Recoverable
// is the base64 form wallets exchange, present only on the ECDSA path
// because key recovery is an ECDSA construction.
type SignedMessage struct {
	Scheme      crypto.Scheme
	PublicKey   []byte // 33-byte compressed key of the signer
	Address     string // P2PKH address of PublicKey
	Compact     []byte // 64-byte r || s
	DER         []byte // strict DER encoding of Compact
	Recoverable string // base64 header || r || s, ECDSA only
}

// Signer signs and verifies messages under a fixed scheme.
type Signer struct {
	scheme crypto.Scheme
	log    *logging.Logger
}

// New returns a Signer for the given scheme. The logger may be nil, in
// which case the global logger's signer component is used.
func New(scheme crypto.Scheme, log *logging.Logger) (*Signer, error) {
	switch scheme {
	case crypto.SchemeECDSA, crypto.SchemeSchnorr:
	default:
		return nil, fmt.Errorf("%w: %d", crypto.ErrInvalidScheme, uint8(scheme))
	}
	if log == nil {
		log = logging.GetGlobalLogger().Component("signer")
	}
	return &Signer{scheme: scheme, log: log}, nil
}

// Scheme returns the scheme the Signer was configured with.
func (s *Signer) Scheme() crypto.Scheme {
	return s.scheme
}

// SignMessage formats payload per the signed-message convention, hashes
// it, and signs the digest. The private key bytes are not retained.
func (s *Signer) SignMessage(priv, payload []byte) (*SignedMessage, error) {
	digest, err := crypto.HashMessage(payload)
	if err != nil {
		return nil, err
	}

	pub, err := crypto.DerivePublicKey(priv)
	if err != nil {
		return nil, err
	}
	address, err := crypto.PubKeyToAddress(pub)
	if err != nil {
		return nil, err
	}

	compact, err := crypto.Sign(priv, digest, s.scheme)
	if err != nil {
		return nil, err
	}
	der, err := crypto.SignatureToDER(compact)
	if err != nil {
		return nil, err
	}

	msg := &SignedMessage{
		Scheme:    s.scheme,
		PublicKey: pub,
		Address:   address,
		Compact:   compact,
		DER:       der,
	}

	if s.scheme == crypto.SchemeECDSA {
		recoverable, err := crypto.SignRecoverable(priv, digest)
		if err != nil {
			return nil, err
		}
		msg.Recoverable = base64.StdEncoding.EncodeToString(recoverable)
	}

	s.log.Debug("message signed",
		zap.Stringer("scheme", s.scheme),
		zap.String("address", address),
		zap.Int("payload_bytes", len(payload)),
		zap.Int("der_bytes", len(der)),
	)
	return msg, nil
}

// VerifyMessage re-derives the payload's digest and verifies a 64-byte
// compact signature against pub under the configured scheme. A nil return
// means the signature is valid; crypto.ErrVerificationFailed reports a
// well-formed signature that does not verify.
func (s *Signer) VerifyMessage(pub, payload, sig []byte) error {
	digest, err := crypto.HashMessage(payload)
	if err != nil {
		return err
	}
	return crypto.Verify(pub, digest, sig, s.scheme)
}

// VerifyMessageByAddress implements the classic verifymessage flow: the
// public key is recovered from a base64 recoverable signature and its
// P2PKH address compared against addr. Only ECDSA signatures are
// recoverable, so the configured scheme must be ECDSA.
func (s *Signer) VerifyMessageByAddress(addr string, payload []byte, base64Sig string) error {
	if s.scheme != crypto.SchemeECDSA {
		return fmt.Errorf("%w: address recovery requires ecdsa", crypto.ErrInvalidScheme)
	}

	wantHash, err := crypto.AddressPubKeyHash(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrInvalidPublicKey, err)
	}

	sig, err := base64.StdEncoding.DecodeString(base64Sig)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrInvalidSignature, err)
	}

	digest, err := crypto.HashMessage(payload)
	if err != nil {
		return err
	}

	pub, err := crypto.RecoverPublicKey(digest, sig)
	if err != nil {
		return err
	}

	// A wrong key recovers to some other valid point, so the mismatch
	// surfaces here rather than in recovery.
	if subtle.ConstantTimeCompare(crypto.Hash160(pub), wantHash) != 1 {
		return crypto.ErrVerificationFailed
	}
	return nil
}
