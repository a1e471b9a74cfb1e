package perception

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/zeromicro/go-zero/core/logx"
)

// maxDimension bounds the longest image side before inference; larger inputs
// only cost latency without helping the models.
const maxDimension = 1280

const jpegQuality = 85

// NormalizeImage prepares an image once for all perception consumers:
// downscale so the longest side is at most maxDimension, then stretch the
// luma range for contrast. Undecodable input is passed through untouched so
// a bad frame degrades detection instead of failing the request.
func NormalizeImage(data []byte) []byte {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logx.Errorf("image decode failed, passing original through: %v", err)
		return data
	}

	img := downscale(src)
	img = stretchContrast(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		logx.Errorf("image encode failed, passing original through: %v", err)
		return data
	}
	return buf.Bytes()
}

func downscale(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := w
	if h > longest {
		longest = h
	}
	if longest > maxDimension {
		scale := float64(maxDimension) / float64(longest)
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// stretchContrast remaps luma to the full 0-255 range. A cheap stand-in for
// the CLAHE pass the inference side used to do itself.
func stretchContrast(img *image.RGBA) *image.RGBA {
	bounds := img.Bounds()

	minLuma, maxLuma := 255, 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			l := luma(img.RGBAAt(x, y))
			if l < minLuma {
				minLuma = l
			}
			if l > maxLuma {
				maxLuma = l
			}
		}
	}
	if maxLuma <= minLuma {
		return img
	}

	scale := 255.0 / float64(maxLuma-minLuma)
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: stretch(px.R, minLuma, scale),
				G: stretch(px.G, minLuma, scale),
				B: stretch(px.B, minLuma, scale),
				A: px.A,
			})
		}
	}
	return out
}

func luma(c color.RGBA) int {
	// ITU-R BT.601 weights
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

func stretch(v uint8, minLuma int, scale float64) uint8 {
	s := (float64(int(v)-minLuma)) * scale
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}
