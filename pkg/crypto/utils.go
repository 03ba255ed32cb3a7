// pkg/crypto/utils.go
// Shared helpers for the crypto package

package crypto

// ZeroBytes overwrites b so transient key material does not outlive its
// use. Best effort: the runtime may already have copied the backing array.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// checksum is the first four bytes of double-SHA256, the Base58Check
// integrity tag shared by the WIF and address encodings.
func checksum(data []byte) []byte {
	return SHA256d(data)[:4]
}
