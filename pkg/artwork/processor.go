package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"

	"github.com/cgddrd/samsung-frame-art/config"
	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	_ "golang.org/x/image/webp"
)

// Frame TV canvas and output encoding.
const (
	CanvasWidth  = 3840
	CanvasHeight = 2160
	JPEGQuality  = 95
)

// Processor fits downloaded photos to the TV canvas.
type Processor struct {
	width     int
	height    int
	cropMode  config.CropMode
	resampler imaging.ResampleFilter
}

// NewProcessor creates a Processor for the 4K Frame canvas.
func NewProcessor(cropMode config.CropMode) *Processor {
	return NewProcessorWithSize(CanvasWidth, CanvasHeight, cropMode)
}

// NewProcessorWithSize creates a Processor for an arbitrary canvas.
func NewProcessorWithSize(width, height int, cropMode config.CropMode) *Processor {
	return &Processor{
		width:     width,
		height:    height,
		cropMode:  cropMode,
		resampler: imaging.Lanczos,
	}
}

// DecodeImage decodes JPEG, PNG or WebP bytes with context awareness.
func (p *Processor) DecodeImage(ctx context.Context, imgBytes []byte) (image.Image, string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, format, fmt.Errorf("decoding image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// EncodeJPEG encodes an image as a JPEG with context awareness.
func (p *Processor) EncodeJPEG(ctx context.Context, img image.Image) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// FitImage scales img so it covers the whole canvas, keeping its aspect ratio,
// then crops it to exactly the canvas size. The result never has borders.
func (p *Processor) FitImage(ctx context.Context, img image.Image) (image.Image, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	newW, newH := coverSize(srcW, srcH, p.width, p.height)

	r := &resizer{resampler: p.resampler}
	resized := r.resizeWithContext(ctx, img, uint(newW), uint(newH))
	if resized == nil {
		return nil, ctx.Err() // Context was canceled during resize.
	}

	if newW == p.width && newH == p.height {
		return resized, nil
	}

	if p.cropMode == config.CropSmart {
		return p.smartCrop(ctx, resized)
	}
	return imaging.CropCenter(resized, p.width, p.height), nil
}

// smartCrop centres the canvas window on the region smartcrop finds most interesting.
func (p *Processor) smartCrop(ctx context.Context, img image.Image) (image.Image, error) {
	r := &resizer{resampler: p.resampler}
	analyzer := smartcrop.NewAnalyzer(r)

	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)

	go func() {
		topCrop, err := analyzer.FindBestCrop(img, p.width, p.height)
		resultChan <- cropResult{crop: topCrop, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return nil, fmt.Errorf("finding best crop: %w", result.err)
		}
		window := centerWindow(img.Bounds(), result.crop, p.width, p.height)
		return imaging.Crop(img, window), nil
	}
}

// coverSize returns the smallest size with the source aspect ratio that covers dstW x dstH.
// The larger of the two axis scale factors wins.
func coverSize(srcW, srcH, dstW, dstH int) (int, int) {
	scale := math.Max(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))

	// Rounding can land one pixel short of the canvas; never go below it.
	w := max(int(math.Round(float64(srcW)*scale)), dstW)
	h := max(int(math.Round(float64(srcH)*scale)), dstH)
	return w, h
}

// centerWindow returns a w x h rectangle inside bounds, centred as close as possible on focus.
func centerWindow(bounds, focus image.Rectangle, w, h int) image.Rectangle {
	cx := (focus.Min.X + focus.Max.X) / 2
	cy := (focus.Min.Y + focus.Max.Y) / 2

	x0 := clamp(cx-w/2, bounds.Min.X, bounds.Max.X-w)
	y0 := clamp(cy-h/2, bounds.Min.Y, bounds.Max.Y-h)
	return image.Rect(x0, y0, x0+w, y0+h)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resizer implements the smartcrop.Resizer interface and adds context awareness.
type resizer struct {
	resampler imaging.ResampleFilter
}

// Resize *doesn't* take a context here.  The smartcrop.Resizer interface doesn't
// support contexts.  We handle cancellation in resizeWithContext.
func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// resizeWithContext performs the resize operation with context awareness.
// It returns nil if the context is canceled first.
func (r *resizer) resizeWithContext(ctx context.Context, img image.Image, width, height uint) image.Image {
	resultChan := make(chan image.Image, 1)

	go func() {
		resultChan <- imaging.Resize(img, int(width), int(height), r.resampler)
	}()

	select {
	case <-ctx.Done():
		return nil
	case result := <-resultChan:
		return result
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
