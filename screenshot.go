package prism

import (
	"image"
	"image/png"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CaptureScreen reads the currently bound read framebuffer into an image.
// GL returns rows bottom up; they are flipped here.
func CaptureScreen(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	flipVertical(img)
	return img
}

func flipVertical(img *image.NRGBA) {
	stride := img.Stride
	tmp := make([]byte, stride)
	for top, bottom := 0, img.Rect.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*stride : (top+1)*stride]
		b := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// WritePNG writes the image to filename.
func WritePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
