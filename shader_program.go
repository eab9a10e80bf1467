package prism

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderProgram compiles GLSL stages and links them into a GL program.
// Uniform blocks are attached with SetUniformBuffer, which binds the block
// to a binding point and the buffer to the same point.
type ShaderProgram struct {
	program uint32
	stages  []uint32
}

// CompileVertex compiles vertex shader source. The source does not need a
// trailing NUL.
func (p *ShaderProgram) CompileVertex(src string) error {
	return p.compile(src, gl.VERTEX_SHADER, "vertex")
}

// CompileFragment compiles fragment shader source.
func (p *ShaderProgram) CompileFragment(src string) error {
	return p.compile(src, gl.FRAGMENT_SHADER, "fragment")
}

func (p *ShaderProgram) compile(src string, xtype uint32, kind string) error {
	shader := gl.CreateShader(xtype)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return fmt.Errorf("failed to compile %s shader: %s", kind, strings.TrimRight(infoLog, "\x00"))
	}

	p.stages = append(p.stages, shader)
	return nil
}

// Link links the compiled stages. The stage objects are detached and
// deleted whether or not linking succeeds.
func (p *ShaderProgram) Link() error {
	p.program = gl.CreateProgram()
	for _, shader := range p.stages {
		gl.AttachShader(p.program, shader)
	}
	gl.LinkProgram(p.program)

	var status int32
	gl.GetProgramiv(p.program, gl.LINK_STATUS, &status)
	var linkErr error
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(p.program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(p.program, logLength, nil, gl.Str(infoLog))
		linkErr = fmt.Errorf("failed to link shader program: %s", strings.TrimRight(infoLog, "\x00"))
	}

	for _, shader := range p.stages {
		gl.DetachShader(p.program, shader)
		gl.DeleteShader(shader)
	}
	p.stages = nil
	return linkErr
}

func (p *ShaderProgram) Enable() {
	gl.UseProgram(p.program)
}

func (p *ShaderProgram) Disable() {
	gl.UseProgram(0)
}

// SetUniformBuffer binds the named uniform block to the binding point and
// attaches the buffer there. The block must exist in the linked program.
func (p *ShaderProgram) SetUniformBuffer(block string, binding uint32, buffer uint32) {
	index := gl.GetUniformBlockIndex(p.program, gl.Str(block+"\x00"))
	if index == gl.INVALID_INDEX {
		panic(fmt.Sprintf("uniform block %q not found in shader program", block))
	}
	gl.UniformBlockBinding(p.program, index, binding)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, buffer)
}

// UniformBlockSize returns the byte size the linked program expects for the
// named std140 block.
func (p *ShaderProgram) UniformBlockSize(block string) int {
	index := gl.GetUniformBlockIndex(p.program, gl.Str(block+"\x00"))
	if index == gl.INVALID_INDEX {
		panic(fmt.Sprintf("uniform block %q not found in shader program", block))
	}
	var size int32
	gl.GetActiveUniformBlockiv(p.program, index, gl.UNIFORM_BLOCK_DATA_SIZE, &size)
	return int(size)
}

// SetTexture2D binds the texture to the unit and points the named sampler
// at it.
func (p *ShaderProgram) SetTexture2D(name string, unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.Uniform1i(p.uniformLocation(name), int32(unit))
}

func (p *ShaderProgram) SetInt(name string, v int32) {
	gl.Uniform1i(p.uniformLocation(name), v)
}

func (p *ShaderProgram) SetFloat(name string, v float32) {
	gl.Uniform1f(p.uniformLocation(name), v)
}

func (p *ShaderProgram) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.uniformLocation(name), v[0], v[1], v[2])
}

func (p *ShaderProgram) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.uniformLocation(name), 1, false, &m[0])
}

// uniformLocation returns -1 for names the compiler optimized out, which
// GL then ignores.
func (p *ShaderProgram) uniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
}

func (p *ShaderProgram) Release() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
