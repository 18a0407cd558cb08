// Package hash computes content fingerprints used to compare encoded and
// normalized documents.
package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of the given bytes.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FingerprintString computes the xxHash64 of the given string.
func FingerprintString(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest accumulates a fingerprint over several chunks, e.g. one per feature.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write adds p to the digest. It never fails.
func (d *Digest) Write(p []byte) {
	_, _ = d.d.Write(p)
}

// Sum64 returns the fingerprint of everything written so far.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}
