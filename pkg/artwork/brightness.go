package artwork

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// DarkThreshold is the mean grayscale intensity (0-255) below which an image counts as dark.
const DarkThreshold = 85.0

// ImageDecodeError is returned when a candidate image cannot be opened or decoded.
type ImageDecodeError struct {
	Path string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %s: %v", e.Path, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// Classification is the brightness verdict for one image.
type Classification struct {
	Mean float64
	Dark bool
}

// String returns "dark" or "light".
func (c Classification) String() string {
	if c.Dark {
		return "dark"
	}
	return "light"
}

// Classify opens the image at path and classifies its brightness.
func Classify(path string) (Classification, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Classification{}, &ImageDecodeError{Path: path, Err: err}
	}
	mean := MeanBrightness(img)
	return Classification{Mean: mean, Dark: IsDarkBrightness(mean)}, nil
}

// IsDarkBrightness applies the dark threshold to a mean intensity.
func IsDarkBrightness(mean float64) bool {
	return mean < DarkThreshold
}

// MeanBrightness converts img to single channel luma (ITU-R 601 weights) and returns
// the arithmetic mean intensity over every pixel on a 0-255 scale.
func MeanBrightness(img image.Image) float64 {
	gray := imaging.Grayscale(img)

	// The mean is taken over the 256 bin histogram, weighted by pixel counts.
	var counts [256]float64
	var total float64
	for i := 0; i < len(gray.Pix); i += 4 {
		counts[gray.Pix[i]]++
		total++
	}
	if total == 0 {
		return 0
	}

	levels := make([]float64, len(counts))
	for i := range levels {
		levels[i] = float64(i)
	}
	return stat.Mean(levels, counts[:])
}
