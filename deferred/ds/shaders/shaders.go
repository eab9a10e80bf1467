package shaders

import (
	_ "embed"
)

//go:embed geompass.vert
var GeometryVertexGLSL string

//go:embed geompass.frag
var GeometryFragmentGLSL string

//go:embed lightpass.vert
var LightingVertexGLSL string

//go:embed lightpass.frag
var LightingFragmentGLSL string

//go:embed hud.vert
var HudVertexGLSL string

//go:embed hud.frag
var HudFragmentGLSL string
