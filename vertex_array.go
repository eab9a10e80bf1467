package prism

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// VertexArray owns a vertex array object plus the element and attribute
// buffers attached to it. Buffers are uploaded once with STATIC_DRAW; the
// per frame data of this renderer flows through uniform blocks instead.
type VertexArray struct {
	vao       uint32
	buffers   []uint32
	nIndices  int32
	indexType uint32
}

func (va *VertexArray) Init() {
	gl.GenVertexArrays(1, &va.vao)
}

// SetElementArray uploads the index buffer.
func (va *VertexArray) SetElementArray(indices []uint32) {
	va.setElementArray(gl.Ptr(indices), 4*len(indices), int32(len(indices)), gl.UNSIGNED_INT)
}

// SetElementArrayUint16 is SetElementArray for 16 bit indices.
func (va *VertexArray) SetElementArrayUint16(indices []uint16) {
	va.setElementArray(gl.Ptr(indices), 2*len(indices), int32(len(indices)), gl.UNSIGNED_SHORT)
}

func (va *VertexArray) setElementArray(data unsafe.Pointer, size int, n int32, xtype uint32) {
	gl.BindVertexArray(va.vao)
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, size, data, gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	va.buffers = append(va.buffers, id)
	va.nIndices = n
	va.indexType = xtype
}

// AddArray uploads a float attribute array and points the location at it.
func (va *VertexArray) AddArray(location uint32, data []float32, components int32) {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BindVertexArray(va.vao)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, components, gl.FLOAT, false, 0, nil)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	va.buffers = append(va.buffers, id)
}

func (va *VertexArray) DrawElements(mode uint32) {
	gl.BindVertexArray(va.vao)
	gl.DrawElements(mode, va.nIndices, va.indexType, nil)
	gl.BindVertexArray(0)
}

// DrawInstanced draws the same elements count times; the shader picks per
// instance data by gl_InstanceID.
func (va *VertexArray) DrawInstanced(mode uint32, count int32) {
	gl.BindVertexArray(va.vao)
	gl.DrawElementsInstanced(mode, va.nIndices, va.indexType, nil, count)
	gl.BindVertexArray(0)
}

func (va *VertexArray) Release() {
	if len(va.buffers) > 0 {
		gl.DeleteBuffers(int32(len(va.buffers)), &va.buffers[0])
		va.buffers = nil
	}
	if va.vao != 0 {
		gl.DeleteVertexArrays(1, &va.vao)
		va.vao = 0
	}
}
