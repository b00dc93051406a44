/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const (
	DefaultQuality = 90

	// MaxSide bounds each side of a requested resize.
	MaxSide = 16384

	// MaxPixels bounds both the decoded source and the encoded output.
	MaxPixels = 64 << 20
)

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists every supported output encoding.
var Formats = []Format{PNG, JPEG, GIF, BMP, TIFF}

// ParseFormat accepts a format name or file extension, with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath infers the output encoding from a file name.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

func (f Format) Extension() string {
	if f == JPEG {
		return "jpg"
	}

	return string(f)
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

// ConvertOptions controls Convert. A zero Quality means DefaultQuality and
// is only used for JPEG output. When Width or Height is set the image is
// resized, with a zero side following the aspect ratio.
type ConvertOptions struct {
	Format  Format
	Quality int
	Width   int
	Height  int
}

func (o ConvertOptions) validate() error {
	if _, err := ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidQuality, o.Quality)
	}
	if o.Width < 0 || o.Height < 0 || o.Width > MaxSide || o.Height > MaxSide {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, o.Width, o.Height)
	}

	return nil
}

// targetSize mirrors how resize.Resize fills in a zero side.
func (o ConvertOptions) targetSize(width, height int) (int, int) {
	switch {
	case o.Width == 0 && o.Height == 0:
		return width, height
	case o.Width == 0:
		return int(0.7 + float64(width)/float64(height)*float64(o.Height)), o.Height
	case o.Height == 0:
		return o.Width, int(0.7 + float64(height)/float64(width)*float64(o.Width))
	}

	return o.Width, o.Height
}

func checkPixels(width, height int) error {
	if int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}

	return nil
}

// Result summarizes a finished conversion.
type Result struct {
	InputFormat  string `json:"input_format"`
	OutputFormat Format `json:"output_format"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Bytes        int64  `json:"bytes"`
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}

// Convert decodes an image from r and encodes it to w as opts.Format.
func Convert(r io.Reader, opts ConvertOptions, w io.Writer) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	format, _ := ParseFormat(string(opts.Format))

	// the header is read first so oversized sources are refused before
	// any pixel buffer is allocated
	var head bytes.Buffer

	cfg, inputFormat, err := image.DecodeConfig(io.TeeReader(r, &head))
	switch {
	case errors.Is(err, image.ErrFormat):
		return Result{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	case err != nil:
		return Result{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	case cfg.Width <= 0 || cfg.Height <= 0:
		return Result{}, fmt.Errorf("%w: source is %dx%d", ErrInvalidDimensions, cfg.Width, cfg.Height)
	}

	if err := checkPixels(cfg.Width, cfg.Height); err != nil {
		return Result{}, err
	}

	width, height := opts.targetSize(cfg.Width, cfg.Height)
	if width <= 0 || height <= 0 {
		return Result{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := checkPixels(width, height); err != nil {
		return Result{}, err
	}

	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	if opts.Width > 0 || opts.Height > 0 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Lanczos3)
	}

	cw := &countingWriter{w: w}

	switch format {
	case PNG:
		err = png.Encode(cw, img)
	case JPEG:
		quality := opts.Quality
		if quality == 0 {
			quality = DefaultQuality
		}
		err = jpeg.Encode(cw, img, &jpeg.Options{Quality: quality})
	case GIF:
		err = gif.Encode(cw, img, nil)
	case BMP:
		err = bmp.Encode(cw, img)
	case TIFF:
		err = tiff.Encode(cw, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return Result{}, fmt.Errorf("encoding %s: %w", format, err)
	}

	bounds := img.Bounds()

	return Result{
		InputFormat:  inputFormat,
		OutputFormat: format,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Bytes:        cw.n,
	}, nil
}
