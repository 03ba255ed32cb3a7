package crypto

// NormalizeSignature rewrites a compact signature into canonical low-S
// form: r stays untouched and s becomes min(s, N-s). Signatures already
// in canonical form are returned unchanged, so the operation is
// idempotent. Verification does not require canonical form; storage and
// relay layers that reject malleable encodings do.
func NormalizeSignature(sig []byte) ([]byte, error) {
	r, s, err := splitCompactSig(sig)
	if err != nil {
		return nil, err
	}

	if s.IsOverHalfOrder() {
		s.Negate()
	}

	out := make([]byte, SignatureLen)
	r.PutBytesUnchecked(out[:32])
	s.PutBytesUnchecked(out[32:])
	return out, nil
}

// IsCanonicalSignature reports whether a compact signature is already in
// low-S form. It shares the component validation of NormalizeSignature.
func IsCanonicalSignature(sig []byte) (bool, error) {
	_, s, err := splitCompactSig(sig)
	if err != nil {
		return false, err
	}
	return !s.IsOverHalfOrder(), nil
}
