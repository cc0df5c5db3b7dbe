package visualization

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"hyview/pkg/cube"
	"hyview/pkg/normalize"
	"hyview/pkg/spectrum"
)

// Options controls how bands are rendered and exported
type Options struct {
	// Normalizer maps band values to display bytes; nil uses the default
	Normalizer *normalize.Normalizer

	// Width rescales exported images to this many pixels wide, keeping the
	// aspect ratio. 0 keeps the native size.
	Width int

	// Quality is the JPEG quality (1-100)
	Quality int

	// NumCores bounds the number of bands exported concurrently
	NumCores int
}

// DefaultOptions returns native-size export with JPEG quality 90 over all
// available cores.
func DefaultOptions() Options {
	return Options{
		Normalizer: normalize.Default(),
		Quality:    90,
		NumCores:   runtime.NumCPU(),
	}
}

// Viewer renders the bands of a hyperspectral cube as grayscale images and
// looks up pixel spectra. It only reads the cube; several bands may be
// rendered concurrently.
type Viewer struct {
	// cube holds the raster being displayed
	cube *cube.Cube

	// wavelengths has one entry per band
	wavelengths []float64

	opts Options
}

// NewViewer creates a viewer over c. wavelengths must hold one value per band.
func NewViewer(c *cube.Cube, wavelengths []float64, opts Options) (*Viewer, error) {
	if len(wavelengths) != c.Bands {
		return nil, fmt.Errorf("have %d wavelengths for %d bands", len(wavelengths), c.Bands)
	}
	if opts.Normalizer == nil {
		opts.Normalizer = normalize.Default()
	}
	if opts.Quality <= 0 {
		opts.Quality = 90
	}
	if opts.NumCores <= 0 {
		opts.NumCores = runtime.NumCPU()
	}
	return &Viewer{cube: c, wavelengths: wavelengths, opts: opts}, nil
}

// Bands returns the number of bands in the cube.
func (v *Viewer) Bands() int {
	return v.cube.Bands
}

// Wavelength returns the wavelength of a band.
func (v *Viewer) Wavelength(band int) (float64, error) {
	if band < 0 || band >= len(v.wavelengths) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", normalize.ErrBandOutOfRange, band, len(v.wavelengths))
	}
	return v.wavelengths[band], nil
}

// RenderBand normalizes a band into an image of samples × lines pixels.
func (v *Viewer) RenderBand(band int) (image.Image, error) {
	rgb, err := v.opts.Normalizer.Normalize(v.cube, band)
	if err != nil {
		return nil, err
	}
	img, err := normalize.ToImage(rgb, v.cube.Samples, v.cube.Lines)
	if err != nil {
		return nil, err
	}
	return ScaleToWidth(img, v.opts.Width), nil
}

// ScaleToWidth resizes img to the given width keeping its aspect ratio.
// Non-positive widths and empty images are returned unchanged.
func ScaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dy() == 0 || width == b.Dx() {
		return img
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

// Spectrum returns the valid band values at one pixel.
func (v *Viewer) Spectrum(line, sample int) (*spectrum.Spectrum, error) {
	return spectrum.Extract(v.cube, v.wavelengths, line, sample)
}

// SaveImage encodes img to filename; the format follows the extension
// (.png, .jpg or .jpeg).
func (v *Viewer) SaveImage(img image.Image, filename string) (err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported image format: %q (must be .png, .jpg or .jpeg)", ext)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if ext == ".png" {
		return png.Encode(file, img)
	}
	return jpeg.Encode(file, img, &jpeg.Options{Quality: v.opts.Quality})
}

// SaveBand renders a band and writes it to filename
func (v *Viewer) SaveBand(band int, filename string) error {
	img, err := v.RenderBand(band)
	if err != nil {
		return err
	}
	return v.SaveImage(img, filename)
}

// SaveBandSequence renders every band into outputDir as band_NNN.<format>.
// Bands are exported concurrently on up to NumCores goroutines; the first
// error stops the remaining work and is returned.
func (v *Viewer) SaveBandSequence(outputDir, format string) error {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	switch format {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("invalid format: %s (must be png or jpeg)", format)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(v.opts.NumCores)
	for band := 0; band < v.cube.Bands; band++ {
		band := band
		g.Go(func() error {
			filename := filepath.Join(outputDir, BandFilename(band, format))
			if err := v.SaveBand(band, filename); err != nil {
				return fmt.Errorf("failed to save band %d: %w", band, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// BandFilename returns the file name SaveBandSequence uses for a band.
func BandFilename(band int, format string) string {
	return fmt.Sprintf("band_%03d.%s", band, format)
}
