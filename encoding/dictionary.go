package encoding

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/geobuf/errs"
)

// KeyDictionary is an ordered set of property keys addressed by index.
//
// Keys are numbered in first-insertion order starting at zero; the encoded
// document stores the keys once and refers to them by index everywhere else.
// A dictionary belongs to a single encode or decode call and is not safe for
// concurrent mutation. Concurrent Index lookups after the last Add are safe.
type KeyDictionary struct {
	keys  []string
	index map[string]uint32
	limit int
}

// NewKeyDictionary creates an empty dictionary.
func NewKeyDictionary() *KeyDictionary {
	return &KeyDictionary{
		index: make(map[string]uint32),
		limit: math.MaxUint32,
	}
}

// NewKeyDictionaryFrom creates a dictionary holding keys in the given order.
//
// It is used on the decode side where the key table arrives ready-made. A
// repeated key keeps its first index for Index, while Key still resolves
// every position.
func NewKeyDictionaryFrom(keys []string) *KeyDictionary {
	d := &KeyDictionary{
		keys:  keys,
		index: make(map[string]uint32, len(keys)),
		limit: math.MaxUint32,
	}
	for i, k := range keys {
		if _, ok := d.index[k]; !ok {
			d.index[k] = uint32(i) //nolint:gosec
		}
	}

	return d
}

// Add records key and returns its index. Adding a known key returns the index
// it was first given.
//
// Returns an error wrapping errs.ErrKeyDictionaryOverflow when a new key would
// not fit in a uint32 index.
func (d *KeyDictionary) Add(key string) (uint32, error) {
	if i, ok := d.index[key]; ok {
		return i, nil
	}
	if len(d.keys) >= d.limit {
		return 0, errors.Wrapf(errs.ErrKeyDictionaryOverflow, "more than %d distinct keys", d.limit)
	}

	i := uint32(len(d.keys)) //nolint:gosec
	d.index[key] = i
	d.keys = append(d.keys, key)

	return i, nil
}

// Index returns the index of key.
func (d *KeyDictionary) Index(key string) (uint32, bool) {
	i, ok := d.index[key]
	return i, ok
}

// Key returns the key stored at index i.
func (d *KeyDictionary) Key(i uint32) (string, bool) {
	if uint64(i) >= uint64(len(d.keys)) {
		return "", false
	}

	return d.keys[i], true
}

// Keys returns the keys in index order. The slice must not be modified.
func (d *KeyDictionary) Keys() []string {
	return d.keys
}

// Len returns the number of keys.
func (d *KeyDictionary) Len() int {
	return len(d.keys)
}
