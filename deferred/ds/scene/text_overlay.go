package scene

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph locates one rune in the overlay atlas.
type Glyph struct {
	UVMin   [2]float32
	UVMax   [2]float32
	Size    [2]float32
	Offset  [2]float32
	Advance float32
}

// TextItem is one HUD string. X and Y are pixels from the top left corner
// of the window.
type TextItem struct {
	Text  string
	X, Y  float32
	Scale float32
	Color [4]float32
}

// TextOverlay rasterizes a font face into an alpha atlas once and turns
// HUD strings into textured quads. It never touches the GPU; the caller
// uploads the atlas and the vertex data.
type TextOverlay struct {
	Atlas  *image.Alpha
	Glyphs map[rune]Glyph
	face   font.Face
}

// NewTextOverlay builds the glyph atlas for the printable ASCII range.
// With an empty fontPath the built in 7x13 bitmap face is used, so the
// overlay needs no font asset on disk.
func NewTextOverlay(fontPath string, size float64) (*TextOverlay, error) {
	face, err := loadFace(fontPath, size)
	if err != nil {
		return nil, err
	}

	const atlasSize = 512
	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]Glyph)

	x, y := 2, 2
	rowHeight := 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, maskPoint, advance, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		w := bounds.Dx()
		h := bounds.Dy()
		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, maskPoint, draw.Src)

		glyphs[r] = Glyph{
			UVMin:   [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax:   [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:    [2]float32{float32(w), float32(h)},
			Offset:  [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Advance: float32(advance) / 64, // fixed 26.6 to pixels
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &TextOverlay{
		Atlas:  atlas,
		Glyphs: glyphs,
		face:   face,
	}, nil
}

func loadFace(fontPath string, size float64) (font.Face, error) {
	if fontPath == "" {
		return basicfont.Face7x13, nil
	}
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// BuildArrays emits one textured quad per glyph as separate attribute
// arrays plus 16 bit quad indices. Positions come out in normalized
// device coordinates for the given screen size.
func (o *TextOverlay) BuildArrays(items []TextItem, screenW, screenH int) (positions, texcoords, colors []float32, indices []uint16) {
	sw := float32(screenW)
	sh := float32(screenH)
	metrics := o.face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	for _, item := range items {
		penX := item.X
		penY := item.Y + ascent*item.Scale

		for _, r := range item.Text {
			if r == '\n' {
				penX = item.X
				penY += lineHeight * item.Scale
				continue
			}
			g, ok := o.Glyphs[r]
			if !ok {
				continue
			}

			x0 := (penX+g.Offset[0]*item.Scale)/sw*2 - 1
			y0 := 1 - (penY+g.Offset[1]*item.Scale)/sh*2
			x1 := (penX+(g.Offset[0]+g.Size[0])*item.Scale)/sw*2 - 1
			y1 := 1 - (penY+(g.Offset[1]+g.Size[1])*item.Scale)/sh*2

			base := uint16(len(positions) / 2)
			positions = append(positions, x0, y0, x1, y0, x1, y1, x0, y1)
			texcoords = append(texcoords,
				g.UVMin[0], g.UVMin[1],
				g.UVMax[0], g.UVMin[1],
				g.UVMax[0], g.UVMax[1],
				g.UVMin[0], g.UVMax[1])
			for v := 0; v < 4; v++ {
				colors = append(colors, item.Color[0], item.Color[1], item.Color[2], item.Color[3])
			}
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)

			penX += g.Advance * item.Scale
		}
	}
	return positions, texcoords, colors, indices
}
