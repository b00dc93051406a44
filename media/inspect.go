/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Seednode/mediabox/bytesize"
	"github.com/dustin/go-humanize"
)

// ImageInfo is filled in when the input decodes as a supported image.
type ImageInfo struct {
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ColorModel string `json:"color_model"`
	Pixels     string `json:"pixels"`
}

// Info describes an inspected file.
type Info struct {
	Name        string     `json:"name"`
	Extension   string     `json:"extension"`
	Size        int64      `json:"size"`
	SizeExact   string     `json:"size_exact"`
	SizeHuman   string     `json:"size_human"`
	SizeSI      string     `json:"size_si"`
	ContentType string     `json:"content_type"`
	Image       *ImageInfo `json:"image,omitempty"`
}

// Inspect reads r fully and reports what it contains. A positive limit caps
// how many bytes are read; larger input fails with ErrTooLarge.
func Inspect(name string, r io.Reader, limit int64) (Info, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("reading %q: %w", name, err)
	}

	switch {
	case len(data) == 0:
		return Info{}, ErrEmptyInput
	case limit > 0 && int64(len(data)) > limit:
		return Info{}, fmt.Errorf("%w (%s)", ErrTooLarge, humanize.IBytes(uint64(limit)))
	}

	size := int64(len(data))

	info := Info{
		Name:        filepath.Base(name),
		Extension:   extension(name),
		Size:        size,
		SizeExact:   humanize.Comma(size) + " bytes",
		SizeHuman:   bytesize.HumanizeInt(size),
		SizeSI:      humanize.Bytes(uint64(size)),
		ContentType: http.DetectContentType(data),
	}

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Image = &ImageInfo{
			Format:     format,
			Width:      cfg.Width,
			Height:     cfg.Height,
			ColorModel: colorModelName(cfg.ColorModel),
			Pixels:     humanize.SIWithDigits(float64(cfg.Width)*float64(cfg.Height), 1, "px"),
		}
	}

	return info, nil
}

func extension(name string) string {
	base := filepath.Base(name)

	// dotfiles like .gitignore have no extension
	if strings.LastIndex(base, ".") <= 0 {
		return ""
	}

	return strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
}
