package jsontree

import (
	"iter"
	"slices"
)

// Object is an insertion-ordered set of unique keys mapped to values.
//
// A nil *Object reads as empty. The zero Object is ready to use.
type Object struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewObject returns an empty object with room for capacity members.
func NewObject(capacity ...int) *Object {
	n := 0
	if len(capacity) > 0 {
		n = capacity[0]
	}

	return &Object{
		keys:   make([]string, 0, n),
		values: make([]Value, 0, n),
		index:  make(map[string]int, n),
	}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}

	return o.values[i], true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.values[i] = v
		return
	}

	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

// Delete removes key, preserving the order of the remaining members.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	i, ok := o.index[key]
	if !ok {
		return false
	}

	o.keys = slices.Delete(o.keys, i, i+1)
	o.values = slices.Delete(o.values, i, i+1)
	delete(o.index, key)
	for j := i; j < len(o.keys); j++ {
		o.index[o.keys[j]] = j
	}

	return true
}

// At returns the i-th member in insertion order.
func (o *Object) At(i int) (string, Value) {
	return o.keys[i], o.values[i]
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}

	return slices.Clone(o.keys)
}

// All iterates over members in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for i, k := range o.keys {
			if !yield(k, o.values[i]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}

	c := NewObject(len(o.keys))
	for i, k := range o.keys {
		c.Set(k, o.values[i].Clone())
	}

	return c
}

// sortedIndexes returns member positions ordered by key bytes.
func (o *Object) sortedIndexes() []int {
	idx := make([]int, o.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		switch {
		case o.keys[a] < o.keys[b]:
			return -1
		case o.keys[a] > o.keys[b]:
			return 1
		default:
			return 0
		}
	})

	return idx
}

// SortKeys returns a deep copy of v in which every object has its members
// ordered by key.
func SortKeys(v Value) Value {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = SortKeys(item)
		}

		return ArrayOf(items...)
	case KindObject:
		sorted := NewObject(v.obj.Len())
		for _, i := range v.obj.sortedIndexes() {
			sorted.Set(v.obj.keys[i], SortKeys(v.obj.values[i]))
		}

		return ObjectOf(sorted)
	default:
		return v.Clone()
	}
}
