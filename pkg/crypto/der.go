// pkg/crypto/der.go
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	// SignatureDERMinLen is the shortest well-formed DER signature: a
	// sequence of two single-byte integers.
	SignatureDERMinLen = 8

	// SignatureDERMaxLen is the longest strict DER signature: two 32-byte
	// integers, each carrying one padding byte for a set high bit.
	SignatureDERMaxLen = 72

	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02
)

// SignatureToDER encodes a 64-byte compact signature as a DER SEQUENCE of
// two INTEGERs. Each component uses the minimal non-negative encoding: a
// zero byte is prepended only when the first content byte has its high
// bit set. The encoding is 8 to 72 bytes; the returned slice carries the
// exact length. The components are encoded as given — callers wanting
// canonical low-S output normalize first.
func SignatureToDER(sig []byte) ([]byte, error) {
	if _, _, err := splitCompactSig(sig); err != nil {
		return nil, err
	}

	rb := canonicalizeInt(sig[:32])
	sb := canonicalizeInt(sig[32:])

	// 0x30 <len> 0x02 <rLen> r 0x02 <sLen> s
	der := make([]byte, 0, SignatureDERMaxLen)
	der = append(der, asn1SequenceID, byte(4+len(rb)+len(sb)))
	der = append(der, asn1IntegerID, byte(len(rb)))
	der = append(der, rb...)
	der = append(der, asn1IntegerID, byte(len(sb)))
	der = append(der, sb...)
	return der, nil
}

// SignatureFromDER parses a strict DER signature into the 64-byte compact
// form. There is no lenient mode: any structural deviation — wrong tags,
// length mismatches, trailing bytes, negative integers, non-minimal
// padding, or integers wider than 32 bytes after the single allowed
// padding byte — fails with ErrInvalidEncoding. Structurally valid
// encodings whose r or s is zero or not below the group order fail with
// ErrInvalidSignature.
func SignatureFromDER(der []byte) ([]byte, error) {
	if len(der) < SignatureDERMinLen {
		return nil, fmt.Errorf("%w: signature too short (%d bytes)",
			ErrInvalidEncoding, len(der))
	}
	if len(der) > SignatureDERMaxLen {
		return nil, fmt.Errorf("%w: signature too long (%d bytes)",
			ErrInvalidEncoding, len(der))
	}

	if der[0] != asn1SequenceID {
		return nil, fmt.Errorf("%w: wrong sequence tag 0x%02x",
			ErrInvalidEncoding, der[0])
	}
	if int(der[1]) != len(der)-2 {
		return nil, fmt.Errorf("%w: sequence length %d does not match %d content bytes",
			ErrInvalidEncoding, der[1], len(der)-2)
	}

	if der[2] != asn1IntegerID {
		return nil, fmt.Errorf("%w: wrong r integer tag 0x%02x",
			ErrInvalidEncoding, der[2])
	}
	rLen := int(der[3])
	rOffset := 4
	// The r content must leave room for at least the two s header bytes.
	if rLen == 0 || rOffset+rLen+2 > len(der) {
		return nil, fmt.Errorf("%w: invalid r length %d", ErrInvalidEncoding, rLen)
	}

	sTypeOffset := rOffset + rLen
	if der[sTypeOffset] != asn1IntegerID {
		return nil, fmt.Errorf("%w: wrong s integer tag 0x%02x",
			ErrInvalidEncoding, der[sTypeOffset])
	}
	sLen := int(der[sTypeOffset+1])
	sOffset := sTypeOffset + 2
	if sLen == 0 || sOffset+sLen != len(der) {
		return nil, fmt.Errorf("%w: invalid s length %d", ErrInvalidEncoding, sLen)
	}

	rBytes, err := parseDERInt(der[rOffset:rOffset+rLen], "r")
	if err != nil {
		return nil, err
	}
	sBytes, err := parseDERInt(der[sOffset:], "s")
	if err != nil {
		return nil, err
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(rBytes); overflow || r.IsZero() {
		return nil, fmt.Errorf("%w: r is zero or exceeds the group order",
			ErrInvalidSignature)
	}
	if overflow := s.SetByteSlice(sBytes); overflow || s.IsZero() {
		return nil, fmt.Errorf("%w: s is zero or exceeds the group order",
			ErrInvalidSignature)
	}

	sig := make([]byte, SignatureLen)
	r.PutBytesUnchecked(sig[:32])
	s.PutBytesUnchecked(sig[32:])
	return sig, nil
}

// parseDERInt validates the content bytes of one INTEGER and strips the
// single padding byte permitted in front of a set high bit. The result is
// at most 32 value bytes.
func parseDERInt(content []byte, name string) ([]byte, error) {
	if content[0]&0x80 != 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidEncoding, name)
	}
	if len(content) > 1 && content[0] == 0x00 && content[1]&0x80 == 0 {
		return nil, fmt.Errorf("%w: %s has excess padding", ErrInvalidEncoding, name)
	}
	if len(content) > 1 && content[0] == 0x00 {
		content = content[1:]
	}
	if len(content) > 32 {
		return nil, fmt.Errorf("%w: %s occupies more than 32 bytes",
			ErrInvalidEncoding, name)
	}
	return content, nil
}

// canonicalizeInt returns the minimal DER content bytes for a big-endian
// value: redundant leading zeros are dropped and a single zero is kept (or
// added) in front of a set high bit so the integer stays non-negative.
func canonicalizeInt(val []byte) []byte {
	b := val
	for len(b) > 1 && b[0] == 0x00 && b[1]&0x80 == 0 {
		b = b[1:]
	}
	if b[0]&0x80 != 0 {
		padded := make([]byte, len(b)+1)
		copy(padded[1:], b)
		return padded
	}
	return b
}
