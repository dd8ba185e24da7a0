package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	XXHash Algorithm = "xxhash"
)

// DefaultHexLen is the number of hex characters kept from the digest.
// 48 bits is enough to tell apart the files of an ordinary codebase but
// offers no collision resistance against an adversary; raise it via config
// if that matters.
const DefaultHexLen = 12

// Digest is a truncated content fingerprint scheme. The same scheme is used
// for file contents and for directory aggregation, so two snapshots are only
// comparable when they were produced with the same algorithm and length.
type Digest struct {
	algo   Algorithm
	hexLen int
}

func New(algo Algorithm, hexLen int) (Digest, error) {
	switch algo {
	case SHA256, XXHash:
	default:
		return Digest{}, fmt.Errorf("unknown hash algorithm %q", algo)
	}
	if hexLen < 4 || hexLen > 64 {
		return Digest{}, fmt.Errorf("digest length %d out of range [4,64]", hexLen)
	}
	return Digest{algo: algo, hexLen: hexLen}, nil
}

func Default() Digest {
	return Digest{algo: SHA256, hexLen: DefaultHexLen}
}

func (d Digest) Algorithm() Algorithm { return d.algo }
func (d Digest) HexLen() int          { return d.hexLen }

func (d Digest) newHash() stdhash.Hash {
	if d.algo == XXHash {
		return xxhash.New()
	}
	return sha256.New()
}

// Sum computes the truncated hex fingerprint of data.
func (d Digest) Sum(data []byte) string {
	h := d.newHash()
	h.Write(data)
	sum := hex.EncodeToString(h.Sum(nil))
	if len(sum) > d.hexLen {
		sum = sum[:d.hexLen]
	}
	return sum
}

// Aggregate combines child fingerprints into a directory fingerprint.
// Children are sorted by hash value before concatenation, so the result
// depends only on the set of fingerprints, not on filenames or the order
// the filesystem listed them in. Renaming a file without changing its
// content leaves every ancestor directory's hash untouched.
func (d Digest) Aggregate(childHashes []string) string {
	sorted := make([]string, len(childHashes))
	copy(sorted, childHashes)
	sort.Strings(sorted)
	return d.Sum([]byte(strings.Join(sorted, "")))
}
