package prism

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type textureFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

// FrameBuffer is an off screen render target with one renderbuffer depth
// attachment and any number of color textures, added in binding order.
// Resize respecifies every attachment at the new size.
type FrameBuffer struct {
	width, height int32
	fbo           uint32
	depth         uint32
	textures      []uint32
	formats       []textureFormat
}

func (f *FrameBuffer) Init(width, height int32) {
	f.width = width
	f.height = height

	gl.GenFramebuffers(1, &f.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, f.fbo)

	gl.GenRenderbuffers(1, &f.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, f.depth)
	gl.FramebufferRenderbuffer(gl.DRAW_FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, f.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32, width, height)

	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
}

// AddColorTexture creates a texture at the framebuffer size and attaches
// it to the next free color attachment.
func (f *FrameBuffer) AddColorTexture(internal int32, format, xtype uint32) {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, f.fbo)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, f.width, f.height, 0, format, xtype, nil)

	attachment := uint32(gl.COLOR_ATTACHMENT0 + len(f.textures))
	gl.FramebufferTexture(gl.DRAW_FRAMEBUFFER, attachment, texture, 0)
	f.textures = append(f.textures, texture)
	f.formats = append(f.formats, textureFormat{internal, format, xtype})

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
}

// Verify reports whether the driver accepts the attachment combination.
func (f *FrameBuffer) Verify() error {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, f.fbo)
	status := gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: status 0x%04x", status)
	}
	return nil
}

// Bind makes the framebuffer the draw target and routes fragment outputs
// to the color attachments in the order they were added.
func (f *FrameBuffer) Bind() {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, f.fbo)
	attachments := make([]uint32, len(f.textures))
	for i := range attachments {
		attachments[i] = uint32(gl.COLOR_ATTACHMENT0 + i)
	}
	gl.DrawBuffers(int32(len(attachments)), &attachments[0])
}

func (f *FrameBuffer) Unbind() {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
}

// Resize respecifies the depth storage and every color texture.
func (f *FrameBuffer) Resize(width, height int32) {
	f.width = width
	f.height = height

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, f.fbo)

	gl.BindRenderbuffer(gl.RENDERBUFFER, f.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT32, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	for i, texture := range f.textures {
		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.TexImage2D(gl.TEXTURE_2D, 0, f.formats[i].internal, width, height, 0,
			f.formats[i].format, f.formats[i].xtype, nil)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
}

// Textures returns the color textures in attachment order.
func (f *FrameBuffer) Textures() []uint32 {
	return f.textures
}

func (f *FrameBuffer) Release() {
	if len(f.textures) > 0 {
		gl.DeleteTextures(int32(len(f.textures)), &f.textures[0])
		f.textures = nil
	}
	if f.depth != 0 {
		gl.DeleteRenderbuffers(1, &f.depth)
		f.depth = 0
	}
	if f.fbo != 0 {
		gl.DeleteFramebuffers(1, &f.fbo)
		f.fbo = 0
	}
}
