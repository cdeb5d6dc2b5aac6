package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeTestImage は 10x10 の単色画像を指定形式でエンコードします。
func encodeTestImage(t *testing.T, format string, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, c)
		}
	}

	buf := new(bytes.Buffer)
	switch format {
	case "png":
		require.NoError(t, png.Encode(buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(buf, img, nil))
	default:
		t.Fatalf("unsupported format: %s", format)
	}
	return buf.Bytes()
}

var red = color.RGBA{R: 255, A: 255}
