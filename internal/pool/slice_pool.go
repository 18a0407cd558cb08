package pool

import "sync"

// Slice pools for reuse of scratch slices while flattening coordinates and
// ring lengths into packed fields.
var (
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
	uint32SlicePool = sync.Pool{
		New: func() any { return &[]uint32{} },
	}
)

// GetInt64Slice retrieves an empty int64 slice from the pool with at least the
// given capacity.
//
// The caller must call the returned cleanup function to return the slice to the pool.
// The slice must not be used after cleanup. Only the returned slice goes back to
// the pool, so callers that append should request the final capacity up front.
//
// Example:
//
//	coords, cleanup := pool.GetInt64Slice(1000)
//	defer cleanup()
//	coords = append(coords, delta)
func GetInt64Slice(capacity int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]int64, 0, capacity)
	}

	return slice, func() {
		*ptr = slice[:0]
		int64SlicePool.Put(ptr)
	}
}

// GetUint32Slice retrieves an empty uint32 slice from the pool with at least the
// given capacity. See GetInt64Slice.
func GetUint32Slice(capacity int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]uint32, 0, capacity)
	}

	return slice, func() {
		*ptr = slice[:0]
		uint32SlicePool.Put(ptr)
	}
}
