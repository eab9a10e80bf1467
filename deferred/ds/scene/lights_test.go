package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LightsI = 2
	cfg.LightsJ = 3
	return cfg
}

func TestGridColorsDeterministic(t *testing.T) {
	g1 := NewGrid(testConfig())
	g2 := NewGrid(testConfig())

	if g1.Count() != 6 {
		t.Fatalf("Expected 6 cells, got %d", g1.Count())
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if g1.Color(i, j) != g2.Color(i, j) {
				t.Errorf("Cell (%d,%d): same seed should give the same color", i, j)
			}
		}
	}

	reseeded := testConfig()
	reseeded.Seed = 99
	g3 := NewGrid(reseeded)
	same := true
	for i := 0; i < 2 && same; i++ {
		for j := 0; j < 3; j++ {
			if g1.Color(i, j) != g3.Color(i, j) {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("Different seeds should give different colors")
	}
}

func TestGridTranslationLattice(t *testing.T) {
	g := NewGrid(DefaultConfig()) // 10x10, offset 15

	// Cell (0,0) sits at (-67.5, 0, -67.5); the opposite corner mirrors it.
	corner := g.Translation(0, 0)
	if !closeEnough(corner.At(0, 3), -67.5, 1e-4) || !closeEnough(corner.At(2, 3), -67.5, 1e-4) {
		t.Errorf("Cell (0,0) at (%f, %f), expected (-67.5, -67.5)",
			corner.At(0, 3), corner.At(2, 3))
	}
	if corner.At(1, 3) != 0 {
		t.Errorf("Lattice cells should stay on the ground plane, got y=%f", corner.At(1, 3))
	}

	opposite := g.Translation(9, 9)
	if !closeEnough(opposite.At(0, 3), 67.5, 1e-4) || !closeEnough(opposite.At(2, 3), 67.5, 1e-4) {
		t.Errorf("Cell (9,9) at (%f, %f), expected (67.5, 67.5)",
			opposite.At(0, 3), opposite.At(2, 3))
	}
}

func TestGridLights(t *testing.T) {
	g := NewGrid(testConfig())

	lights := g.Lights(mgl32.Ident4())
	if len(lights) != g.Count() {
		t.Fatalf("Expected %d lights, got %d", g.Count(), len(lights))
	}

	for k, l := range lights {
		if !l.IsSpot {
			t.Errorf("Light %d should be a spot", k)
		}
		if !closeEnough(l.Position.Y(), 10, 1e-4) {
			t.Errorf("Light %d should hover 10 units up, got %f", k, l.Position.Y())
		}
		if !closeEnough(l.Position.W(), 1, 1e-4) {
			t.Errorf("Light %d position should be a point, got w=%f", k, l.Position.W())
		}
		if !closeEnough(l.SpotDirection.Y(), -1, 1e-4) {
			t.Errorf("Light %d should point straight down before any swirl, got %v", k, l.SpotDirection)
		}
		if !closeEnough(l.SpotCutoff, mgl32.DegToRad(45), 1e-6) {
			t.Errorf("Light %d cutoff: expected 45 degrees, got %f", k, l.SpotCutoff)
		}
	}

	// Lights come out row major, so the first one hovers over cell (0,0).
	cell := g.Translation(0, 0)
	if !closeEnough(lights[0].Position.X(), cell.At(0, 3), 1e-4) ||
		!closeEnough(lights[0].Position.Z(), cell.At(2, 3), 1e-4) {
		t.Errorf("First light at (%f, %f), expected its cell at (%f, %f)",
			lights[0].Position.X(), lights[0].Position.Z(), cell.At(0, 3), cell.At(2, 3))
	}

	// Colors carry over from the cells.
	if lights[0].Diffuse != g.Color(0, 0) {
		t.Errorf("First light diffuse %v should match cell color %v", lights[0].Diffuse, g.Color(0, 0))
	}
}

func TestGridRotateSwirlsLights(t *testing.T) {
	g := NewGrid(testConfig())
	before := g.Lights(mgl32.Ident4())[0].Position

	g.Rotate(math.Pi / 2)
	after := g.Lights(mgl32.Ident4())[0].Position

	// A quarter turn around Y maps (x, z) to (z, -x).
	if !closeEnough(after.X(), before.Z(), 1e-3) || !closeEnough(after.Z(), -before.X(), 1e-3) {
		t.Errorf("Quarter turn moved the light from %v to %v", before, after)
	}
	if !closeEnough(after.Y(), before.Y(), 1e-3) {
		t.Errorf("The swirl should not change the hover height: %f vs %f", before.Y(), after.Y())
	}
}
