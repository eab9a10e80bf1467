package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type cameraConfig struct {
	eye    mgl32.Vec3
	center mgl32.Vec3
	up     mgl32.Vec3
}

var cameraConfigs = []cameraConfig{
	{mgl32.Vec3{0, 5, 0}, mgl32.Vec3{1, 5, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-20, 20, -20}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 100, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}},
}

// Camera cycles through a fixed set of viewpoints: eye level inside the
// scene, an elevated corner view and a top down view.
type Camera struct {
	config int
}

// NextConfig switches to the next viewpoint, wrapping around.
func (c *Camera) NextConfig() {
	c.config = (c.config + 1) % len(cameraConfigs)
}

// Config returns the active viewpoint index.
func (c *Camera) Config() int {
	return c.config
}

// NumConfigs returns the number of viewpoints in the cycle.
func (c *Camera) NumConfigs() int {
	return len(cameraConfigs)
}

func (c *Camera) View() mgl32.Mat4 {
	cfg := cameraConfigs[c.config]
	return mgl32.LookAtV(cfg.eye, cfg.center, cfg.up)
}

func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(60), aspect, 1.5, 300)
}
