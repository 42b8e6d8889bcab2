package latchtree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a content hash over every (key, value) pair in key
// order, for comparing two trees without comparing shape. Callers should
// only rely on it against a quiescent tree: a concurrent mutation during
// the scan can surface as a Retry iterator, which Fingerprint treats as
// end-of-scan rather than retrying.
func (t *Tree) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte

	it := t.Begin()
	defer it.Release()

	for it.State() == StateValid {
		k, v := it.Current()
		binary.LittleEndian.PutUint32(buf[0:4], uint32(k))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(v))
		_, _ = h.Write(buf[:])
		it.StepForward()
	}
	return h.Sum64()
}
