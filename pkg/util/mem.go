package util

// CacheLineSize is the alignment target for hot buffers. 64 bytes on
// every platform we care about.
const CacheLineSize = 64

type BytesAllocator interface {
	Alloc(sz int) []byte
	Free([]byte)
}

// AlignedAllocator hands out buffers whose first byte lies on a cache
// line boundary. A sequential scan over such a buffer never starts in
// the middle of a line, and adjacent hot/cold buffers cannot share one.
type AlignedAllocator struct {
}

func (alloc *AlignedAllocator) Alloc(sz int) []byte {
	buf := make([]byte, sz+CacheLineSize)
	off := int(CacheLineSize-uintptr(BytesSliceToPointer(buf))%CacheLineSize) % CacheLineSize
	return buf[off : off+sz : off+sz]
}

func (alloc *AlignedAllocator) Free(bytes []byte) {
}

type DefaultAllocator struct {
}

func (alloc *DefaultAllocator) Alloc(sz int) []byte {
	return make([]byte, sz)
}

func (alloc *DefaultAllocator) Free(bytes []byte) {
}

var GAlloc BytesAllocator = &AlignedAllocator{}
