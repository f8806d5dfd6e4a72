package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Screenshots arrive as PNG, but pasted or uploaded captures may be JPEG or GIF.
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// upscale is the resize factor applied before thresholding.
const upscale = 2

// Preprocess converts a screenshot into the high-contrast image tesseract
// expects: grayscale, upscaled 2x with a cubic filter, then binarized at the
// Otsu threshold and inverted so light text on a dark panel becomes dark text
// on white. The result is PNG encoded.
func Preprocess(img []byte) ([]byte, error) {
	if len(img) == 0 {
		return nil, ErrEmptyImage
	}
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)

	scaled := image.NewGray(image.Rect(0, 0, b.Dx()*upscale, b.Dy()*upscale))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)

	binarizeInverse(scaled, otsuThreshold(scaled))

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// otsuThreshold returns the gray level that maximizes the between-class
// variance of the histogram. Pixels at or below it are one class.
func otsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	for _, p := range img.Pix {
		hist[p]++
	}

	total := len(img.Pix)
	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}

	var (
		sumB    float64
		weightB int
		best    float64
		thresh  uint8
	)
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			thresh = uint8(t)
		}
	}
	return thresh
}

// binarizeInverse maps pixels above t to black and the rest to white.
func binarizeInverse(img *image.Gray, t uint8) {
	for i, p := range img.Pix {
		if p > t {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 255
		}
	}
}
