/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package media inspects and converts uploaded media files.
package media

import (
	"errors"
	"image/color"

	// decoders for image.Decode and image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyInput        = errors.New("input is empty")
	ErrTooLarge          = errors.New("input exceeds upload limit")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidQuality    = errors.New("jpeg quality must be between 1-100 inclusive")
	ErrInvalidDimensions = errors.New("width and height must be between 0-16384 inclusive")
	ErrImageTooLarge     = errors.New("image exceeds pixel limit")
	ErrCorruptImage      = errors.New("image data is corrupt")
)

func colorModelName(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "rgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBAModel:
		return "nrgba"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.AlphaModel:
		return "alpha"
	case color.Alpha16Model:
		return "alpha16"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.CMYKModel:
		return "cmyk"
	case color.YCbCrModel:
		return "ycbcr"
	case color.NYCbCrAModel:
		return "nycbcra"
	}

	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}

	return "unknown"
}
