// pkg/crypto/message.go
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// MaxMessageLen is the longest payload the signed-message formatter
	// accepts.
	MaxMessageLen = 64*1024 - 64

	// messageMagic prefixes every formatted message. The leading byte is
	// the length of the prefix text that follows it.
	messageMagic = "\x18Bitcoin Signed Message:\n"
)

// FormatMessage builds the canonical signable byte string for a payload:
// the magic prefix, the payload length as a Bitcoin compact-size integer,
// then the payload itself. Payloads up to and including MaxMessageLen
// bytes are accepted.
func FormatMessage(payload []byte) ([]byte, error) {
	if len(payload) > MaxMessageLen {
		return nil, fmt.Errorf("%w: %d bytes (max %d)",
			ErrMessageTooLarge, len(payload), MaxMessageLen)
	}

	out := make([]byte, 0, len(messageMagic)+3+len(payload))
	out = append(out, messageMagic...)
	out = appendCompactSize(out, len(payload))
	out = append(out, payload...)
	return out, nil
}

// HashMessage returns the 32-byte double-SHA256 digest of the formatted
// message, the value Bitcoin wallets actually sign.
func HashMessage(payload []byte) ([]byte, error) {
	formatted, err := FormatMessage(payload)
	if err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(formatted), nil
}

// appendCompactSize appends n in Bitcoin's variable-length integer
// encoding. Formatted payloads never exceed 0xffff bytes, so only the
// one-byte and 0xfd-prefixed three-byte forms occur.
func appendCompactSize(b []byte, n int) []byte {
	if n < 0xfd {
		return append(b, byte(n))
	}
	return append(b, 0xfd, byte(n), byte(n>>8))
}
