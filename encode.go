package dxt1

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"
	"sync/atomic"
)

// EncodeOptions configures EncodeImage. A nil *EncodeOptions means
// DefaultEncodeOptions.
type EncodeOptions struct {
	Quality Quality
	// Workers is the number of goroutines; 0 uses GOMAXPROCS.
	Workers int

	AlphaThreshold         int
	AllowAlphaBlocks       bool
	Perceptual             bool
	Grayscale              bool
	EndpointCaching        bool
	UseTransparentForBlack bool
	AlternateRounding      bool
}

// DefaultEncodeOptions returns the options used for a nil *EncodeOptions.
func DefaultEncodeOptions() *EncodeOptions {
	return &EncodeOptions{
		Quality:          QualityDefault,
		AlphaThreshold:   DefaultAlphaThreshold,
		AllowAlphaBlocks: true,
		Perceptual:       true,
		EndpointCaching:  true,
	}
}

// Stats summarizes an encode for quality telemetry.
type Stats struct {
	Blocks      int
	AlphaBlocks int
	SolidBlocks int
	TotalError  uint64
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Blocks += other.Blocks
	s.AlphaBlocks += other.AlphaBlocks
	s.SolidBlocks += other.SolidBlocks
	s.TotalError += other.TotalError
}

func (s *Stats) record(r Result) {
	s.Blocks++
	s.TotalError += r.Error
	if r.AlphaBlock {
		s.AlphaBlocks++
	}
	if r.Solid {
		s.SolidBlocks++
	}
}

// EncodedSize returns the BC1 payload size for an image of the given size.
func EncodedSize(width, height int) int {
	return ((width + 3) / 4) * ((height + 3) / 4) * BlockSize
}

// EncodeImage compresses img into a BC1 payload, blocks in row-major order.
// Partial edge blocks repeat the last row and column.
//
// Block rows are handed to workers one at a time and the recent-results ring
// is reset at the start of every row, so the payload does not depend on
// Workers.
func EncodeImage(img image.Image, opts *EncodeOptions) ([]byte, Stats, error) {
	if img == nil {
		return nil, Stats{}, ErrNilImage
	}
	if opts == nil {
		opts = DefaultEncodeOptions()
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, Stats{}, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	if _, err := i32FromInt(EncodedSize(width, height)); err != nil {
		return nil, Stats{}, err
	}

	base := Params{
		Pixels:                 make([]color.NRGBA, BlockPixels),
		Quality:                opts.Quality,
		AlphaThreshold:         opts.AlphaThreshold,
		AllowAlphaBlocks:       opts.AllowAlphaBlocks,
		Perceptual:             opts.Perceptual,
		Grayscale:              opts.Grayscale,
		EndpointCaching:        opts.EndpointCaching,
		UseTransparentForBlack: opts.UseTransparentForBlack,
		AlternateRounding:      opts.AlternateRounding,
	}
	if err := base.validate(); err != nil {
		return nil, Stats{}, err
	}

	src := toNRGBA(img)
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	out := make([]byte, blocksW*blocksH*BlockSize)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, blocksH)

	var (
		nextRow  atomic.Int32
		wg       sync.WaitGroup
		mu       sync.Mutex
		stats    Stats
		firstErr error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			o := NewOptimizer()
			p := base
			p.Pixels = make([]color.NRGBA, BlockPixels)
			var local Stats

			for {
				by := int(nextRow.Add(1)) - 1
				if by >= blocksH {
					break
				}
				o.Reset()
				for bx := 0; bx < blocksW; bx++ {
					extractBlock(src, bx*4, by*4, p.Pixels)
					r, err := o.Compute(&p)
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return
					}
					r.PutBlock(out[(by*blocksW+bx)*BlockSize:])
					local.record(r)
				}
			}

			mu.Lock()
			stats.Add(local)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, Stats{}, firstErr
	}
	return out, stats, nil
}

// toNRGBA returns img as a zero-origin *image.NRGBA, converting when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Rect, img, b.Min, draw.Src)
	return n
}

// extractBlock copies the 4x4 block at (x0, y0), clamping at the image edges.
func extractBlock(src *image.NRGBA, x0, y0 int, dst []color.NRGBA) {
	maxX := src.Rect.Dx() - 1
	maxY := src.Rect.Dy() - 1
	for y := range 4 {
		sy := min(y0+y, maxY)
		for x := range 4 {
			sx := min(x0+x, maxX)
			off := sy*src.Stride + sx*4
			dst[y*4+x] = color.NRGBA{
				R: src.Pix[off+0],
				G: src.Pix[off+1],
				B: src.Pix[off+2],
				A: src.Pix[off+3],
			}
		}
	}
}
