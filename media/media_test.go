package media

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestInspectImage(t *testing.T) {
	data := testPNG(t, 4, 3)

	info, err := Inspect("dir/Photo.PNG", bytes.NewReader(data), 0)
	require.NoError(t, err)

	require.Equal(t, "Photo.PNG", info.Name)
	require.Equal(t, "png", info.Extension)
	require.Equal(t, int64(len(data)), info.Size)
	require.Equal(t, "image/png", info.ContentType)
	require.Equal(t, fmt.Sprintf("%d B", len(data)), info.SizeHuman)
	require.NotNil(t, info.Image)
	require.Equal(t, "png", info.Image.Format)
	require.Equal(t, 4, info.Image.Width)
	require.Equal(t, 3, info.Image.Height)
	require.Equal(t, "rgba", info.Image.ColorModel)
	require.Equal(t, "12 px", info.Image.Pixels)
}

func TestInspectPlainText(t *testing.T) {
	info, err := Inspect(".notes", strings.NewReader(strings.Repeat("a", 10241)), 0)
	require.NoError(t, err)

	require.Equal(t, "", info.Extension)
	require.Equal(t, "10.0009765625 KiB", info.SizeHuman)
	require.Equal(t, "10,241 bytes", info.SizeExact)
	require.Equal(t, "10 kB", info.SizeSI)
	require.True(t, strings.HasPrefix(info.ContentType, "text/plain"))
	require.Nil(t, info.Image)
}

func TestInspectErrors(t *testing.T) {
	_, err := Inspect("empty.bin", strings.NewReader(""), 0)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = Inspect("big.bin", strings.NewReader("0123456789"), 9)
	require.ErrorIs(t, err, ErrTooLarge)

	info, err := Inspect("fits.bin", strings.NewReader("0123456789"), 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), info.Size)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"png":   PNG,
		".PNG":  PNG,
		"jpg":   JPEG,
		"jpeg":  JPEG,
		" gif ": GIF,
		"bmp":   BMP,
		".tif":  TIFF,
		"tiff":  TIFF,
	}

	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseFormat("webp")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FormatFromPath("out")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err := FormatFromPath("/tmp/out.JPG")
	require.NoError(t, err)
	require.Equal(t, "jpg", f.Extension())
	require.Equal(t, "image/jpeg", f.ContentType())
}

func TestConvertRoundTrip(t *testing.T) {
	src := testPNG(t, 8, 6)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var out bytes.Buffer

			res, err := Convert(bytes.NewReader(src), ConvertOptions{Format: format}, &out)
			require.NoError(t, err)
			require.Equal(t, "png", res.InputFormat)
			require.Equal(t, format, res.OutputFormat)
			require.Equal(t, 8, res.Width)
			require.Equal(t, 6, res.Height)
			require.Equal(t, int64(out.Len()), res.Bytes)

			cfg, decoded, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
			require.NoError(t, err)
			require.Equal(t, string(format), decoded)
			require.Equal(t, 8, cfg.Width)
			require.Equal(t, 6, cfg.Height)
		})
	}
}

// withDimensions rewrites the IHDR chunk of an encoded PNG so its header
// claims width x height while the pixel data stays the same.
func withDimensions(t *testing.T, src []byte, width, height uint32) []byte {
	t.Helper()

	require.Equal(t, "IHDR", string(src[12:16]))

	out := bytes.Clone(src)
	binary.BigEndian.PutUint32(out[16:20], width)
	binary.BigEndian.PutUint32(out[20:24], height)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))

	return out
}

func TestConvertTargetSize(t *testing.T) {
	tests := []struct {
		opts          ConvertOptions
		width, height int
	}{
		{opts: ConvertOptions{}, width: 8, height: 6},
		{opts: ConvertOptions{Width: 4}, width: 4, height: 3},
		{opts: ConvertOptions{Height: 3}, width: 4, height: 3},
		{opts: ConvertOptions{Width: 5, Height: 5}, width: 5, height: 5},
		{opts: ConvertOptions{Width: MaxSide}, width: MaxSide, height: 12288},
	}

	for _, tt := range tests {
		w, h := tt.opts.targetSize(8, 6)
		require.Equal(t, tt.width, w, "%+v", tt.opts)
		require.Equal(t, tt.height, h, "%+v", tt.opts)
	}
}

func TestConvertResize(t *testing.T) {
	src := testPNG(t, 8, 6)

	var out bytes.Buffer
	res, err := Convert(bytes.NewReader(src), ConvertOptions{Format: JPEG, Quality: 50, Width: 4}, &out)
	require.NoError(t, err)
	require.Equal(t, 4, res.Width)
	require.Equal(t, 3, res.Height)

	cfg, format, err := image.DecodeConfig(&out)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, 4, cfg.Width)
	require.Equal(t, 3, cfg.Height)
}

func TestConvertErrors(t *testing.T) {
	src := testPNG(t, 2, 2)

	tests := []struct {
		name string
		in   []byte
		opts ConvertOptions
		want error
	}{
		{name: "missing format", in: src, opts: ConvertOptions{}, want: ErrUnsupportedFormat},
		{name: "unknown format", in: src, opts: ConvertOptions{Format: "webp"}, want: ErrUnsupportedFormat},
		{name: "quality too high", in: src, opts: ConvertOptions{Format: JPEG, Quality: 101}, want: ErrInvalidQuality},
		{name: "negative quality", in: src, opts: ConvertOptions{Format: JPEG, Quality: -1}, want: ErrInvalidQuality},
		{name: "negative width", in: src, opts: ConvertOptions{Format: PNG, Width: -1}, want: ErrInvalidDimensions},
		{name: "not an image", in: []byte("hello"), opts: ConvertOptions{Format: PNG}, want: ErrUnsupportedFormat},
		{name: "empty input", in: nil, opts: ConvertOptions{Format: PNG}, want: ErrUnsupportedFormat},
		{name: "width over limit", in: src, opts: ConvertOptions{Format: PNG, Width: 1 << 40, Height: 1}, want: ErrInvalidDimensions},
		{name: "height over limit", in: src, opts: ConvertOptions{Format: PNG, Height: MaxSide + 1}, want: ErrInvalidDimensions},
		{name: "resize over pixel limit", in: src, opts: ConvertOptions{Format: PNG, Width: MaxSide, Height: MaxSide}, want: ErrImageTooLarge},
		{name: "aspect over pixel limit", in: testPNG(t, 1, 4), opts: ConvertOptions{Format: PNG, Width: MaxSide}, want: ErrImageTooLarge},
		{name: "resize to nothing", in: testPNG(t, 4, 1), opts: ConvertOptions{Format: PNG, Width: 1}, want: ErrInvalidDimensions},
		{name: "source over pixel limit", in: withDimensions(t, src, 1<<16, 1<<16), opts: ConvertOptions{Format: PNG}, want: ErrImageTooLarge},
		{name: "truncated image", in: src[:40], opts: ConvertOptions{Format: PNG}, want: ErrCorruptImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := Convert(bytes.NewReader(tt.in), tt.opts, &out)
			require.ErrorIs(t, err, tt.want)
			require.Zero(t, out.Len())
		})
	}
}
