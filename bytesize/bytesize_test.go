package bytesize

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func TestHumanizeUnknown(t *testing.T) {
	require.Equal(t, Unknown, Humanize(nil))
	require.Equal(t, "-", Humanize(ptr(math.NaN())))
	require.Equal(t, "-", Format(math.NaN()))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		bytes float64
		want  string
	}{
		{name: "zero", bytes: 0, want: "0 B"},
		{name: "negative zero", bytes: math.Copysign(0, -1), want: "0 B"},
		{name: "single byte", bytes: 1, want: "1 B"},
		{name: "negative", bytes: -5, want: "-5 B"},
		{name: "large negative stays in bytes", bytes: -1e25, want: "-1e+25 B"},
		{name: "fractional bytes", bytes: 0.5, want: "0.5 B"},
		{name: "tiny fraction", bytes: 1.5e-7, want: "1.5e-7 B"},
		{name: "threshold is inclusive", bytes: 10240, want: "10240 B"},
		{name: "just above threshold", bytes: 10241, want: "10.0009765625 KiB"},
		{name: "kibibyte threshold", bytes: 10240 * 1024, want: "10240 KiB"},
		{name: "mebibytes", bytes: 20 * 1024 * 1024, want: "20 MiB"},
		{name: "mebibyte threshold", bytes: 10240 * 1024 * 1024, want: "10240 MiB"},
		{name: "gibibytes", bytes: 1.5 * 1024 * 1024 * 1024 * 1024, want: "1536 GiB"},
		{name: "tebibytes", bytes: 10241 * 1024 * 1024 * 1024, want: "10.0009765625 TiB"},
		{name: "tebibytes never escalate", bytes: 10240 * 10240 * 1024 * 1024 * 1024, want: "102400 TiB"},
		{name: "positive infinity", bytes: math.Inf(1), want: "Infinity TiB"},
		{name: "negative infinity", bytes: math.Inf(-1), want: "-Infinity B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Format(tt.bytes))
			require.Equal(t, tt.want, Humanize(ptr(tt.bytes)))
		})
	}
}

func TestFormatUnroundedMebibytes(t *testing.T) {
	got := Format(1024*10240 + 1)

	magnitude, unit, ok := strings.Cut(got, " ")
	require.True(t, ok)
	require.Equal(t, "MiB", unit)

	v, err := strconv.ParseFloat(magnitude, 64)
	require.NoError(t, err)
	require.Equal(t, 10+1.0/(1024*1024), v)
	require.True(t, strings.HasPrefix(magnitude, "10.00000095"), magnitude)
}

func TestFormatTerminalUnit(t *testing.T) {
	for _, bytes := range []float64{10241 * 1024 * 1024 * 1024, 1e18, 1e30, math.MaxFloat64} {
		require.True(t, strings.HasSuffix(Format(bytes), " TiB"), "Format(%g) = %q", bytes, Format(bytes))
	}
}

func TestFormatDeterministic(t *testing.T) {
	for _, bytes := range []float64{0, 10241, 123456789, 9.87e15} {
		require.Equal(t, Format(bytes), Format(bytes))
	}
}

func TestHumanizeInt(t *testing.T) {
	require.Equal(t, "10240 B", HumanizeInt(10240))
	require.Equal(t, "10.0009765625 KiB", HumanizeInt(10241))
	require.Equal(t, "-5 B", HumanizeInt(-5))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "", ok: false},
		{in: "   ", ok: false},
		{in: "abc", ok: false},
		{in: "NaN", ok: false},
		{in: "12kb", ok: false},
		{in: "0", want: 0, ok: true},
		{in: " 10241 ", want: 10241, ok: true},
		{in: "-5", want: -5, ok: true},
		{in: "1.5e3", want: 1500, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
