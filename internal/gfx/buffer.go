package gfx

// BufferTarget is the binding point a buffer attaches to.
type BufferTarget uint8

const (
	ArrayBuffer BufferTarget = iota + 1
	ElementArrayBuffer
)

// Buffer is an immutable block of vertex or index data.
type Buffer struct {
	target  BufferTarget
	floats  []float32
	indices []uint16
}

// NewVertexBuffer uploads a copy of data as an array buffer.
func NewVertexBuffer(data []float32) *Buffer {
	return &Buffer{target: ArrayBuffer, floats: append([]float32(nil), data...)}
}

// NewIndexBuffer uploads a copy of data as an element array buffer.
func NewIndexBuffer(data []uint16) *Buffer {
	return &Buffer{target: ElementArrayBuffer, indices: append([]uint16(nil), data...)}
}

func (b *Buffer) Target() BufferTarget { return b.target }

// Len returns the number of elements (floats or indices) in the buffer.
func (b *Buffer) Len() int {
	if b.target == ElementArrayBuffer {
		return len(b.indices)
	}
	return len(b.floats)
}
