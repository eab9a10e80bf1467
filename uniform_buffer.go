package prism

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const chunkSize = 16

var zeroChunk [chunkSize]byte

// UniformBuffer stages values in std140 layout and uploads them to a GL
// uniform buffer object. Values pack into 16 byte chunks: an append that
// would straddle a chunk boundary pads the current chunk with zeros first.
// FinishChunk closes the current chunk explicitly, which is how std140
// terminates an array element or a block header.
//
// The zero value is ready for staging. Init allocates the device handle
// and must be called once before SendToDevice. A UniformBuffer belongs to
// the render thread.
type UniformBuffer struct {
	id    uint32
	data  []byte
	chunk int
}

// Init allocates the buffer object on the device. Staged bytes are kept.
func (b *UniformBuffer) Init() {
	if b.id != 0 {
		panic("uniform buffer already initialized")
	}
	gl.GenBuffers(1, &b.id)
}

// Id returns the device handle, 0 until Init has been called. The handle
// stays the same across Clear, Add and SendToDevice cycles.
func (b *UniformBuffer) Id() uint32 {
	return b.id
}

// Len returns the number of staged bytes, padding included.
func (b *UniformBuffer) Len() int {
	return len(b.data)
}

// Bytes returns the staged bytes. The slice aliases the internal buffer
// and is only valid until the next Add, FinishChunk or Clear.
func (b *UniformBuffer) Bytes() []byte {
	return b.data
}

// AddFloat appends a 4 byte float scalar.
func (b *UniformBuffer) AddFloat(v float32) {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
	b.add(scratch[:])
}

// AddInt appends a 4 byte integer scalar.
func (b *UniformBuffer) AddInt(v int32) {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], uint32(v))
	b.add(scratch[:])
}

// AddBool appends a bool as a 4 byte integer, the size a bool occupies
// inside a std140 block.
func (b *UniformBuffer) AddBool(v bool) {
	if v {
		b.AddInt(1)
	} else {
		b.AddInt(0)
	}
}

// AddVec3 appends 12 bytes. A vec3 aligns to a fresh chunk when it would
// not fit the current one, but it consumes only 12 bytes of it, so a
// following scalar packs into the same chunk.
func (b *UniformBuffer) AddVec3(v mgl32.Vec3) {
	var scratch [12]byte
	putFloats(scratch[:], v[:])
	b.add(scratch[:])
}

// AddVec4 appends 16 bytes.
func (b *UniformBuffer) AddVec4(v mgl32.Vec4) {
	var scratch [16]byte
	putFloats(scratch[:], v[:])
	b.add(scratch[:])
}

// AddMat4 appends a matrix as four column vectors, each chunk checked on
// its own. A matrix therefore never starts in the middle of a chunk and
// never contains interior padding.
func (b *UniformBuffer) AddMat4(m mgl32.Mat4) {
	for col := 0; col < 4; col++ {
		b.AddVec4(m.Col(col))
	}
}

// FinishChunk pads the buffer with zeros up to the next 16 byte boundary.
// Calling it on an aligned buffer does nothing.
func (b *UniformBuffer) FinishChunk() {
	if b.chunk == 0 {
		return
	}
	b.data = append(b.data, zeroChunk[:chunkSize-b.chunk]...)
	b.chunk = 0
}

// Clear drops the staged bytes and resets the chunk offset. The device
// handle and whatever was last uploaded are untouched.
func (b *UniformBuffer) Clear() {
	b.data = b.data[:0]
	b.chunk = 0
}

// SendToDevice uploads the staged bytes verbatim with DYNAMIC_DRAW. An
// empty buffer uploads a zero length store. Init must have been called.
func (b *UniformBuffer) SendToDevice() {
	if b.id == 0 {
		panic("uniform buffer not initialized")
	}
	var ptr unsafe.Pointer
	if len(b.data) > 0 {
		ptr = gl.Ptr(b.data)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferData(gl.UNIFORM_BUFFER, len(b.data), ptr, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Release deletes the device buffer. Safe on a buffer that was never
// initialized.
func (b *UniformBuffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

func (b *UniformBuffer) add(p []byte) {
	if len(p) > chunkSize {
		panic(fmt.Sprintf("uniform buffer: %d byte value exceeds a std140 chunk", len(p)))
	}
	if b.chunk+len(p) > chunkSize {
		b.FinishChunk()
	}
	b.data = append(b.data, p...)
	b.chunk = (b.chunk + len(p)) % chunkSize
}

func putFloats(dst []byte, src []float32) {
	for i, f := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
