package zarr_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/zarr-grid"
	"github.com/TuSKan/zarr-grid/transform"
)

func TestParseDType(t *testing.T) {
	tests := []struct {
		input       string
		expectedStr string
		expectedSz  int
		expectErr   bool
	}{
		{"<f4", "float32", 4, false},
		{"<i8", "int64", 8, false},
		{"|b1", "bool", 1, false},
		{"<u2", "uint16", 2, false},
		{"|u1", "uint8", 1, false},
		{"<c8", "complex64", 8, false},
		{"=f4", "", 0, true}, // unknown byte order
		{"<f0", "", 0, true}, // zero size
		{">f4", "", 0, true}, // big-endian should fail
		{"x2", "", 0, true},  // invalid encoding
		{"<x4", "", 0, true}, // unknown kind
		{"<i", "", 0, true},  // incomplete size
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			str, sz, err := zarr.ParseDType(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedStr, str)
			require.Equal(t, tt.expectedSz, sz)
		})
	}
}

func TestLoadMetadata(t *testing.T) {
	tempDir := t.TempDir()

	mockJSON := `{
		"zarr_format": 2,
		"shape": [128, 100],
		"chunks": [64, 64],
		"dtype": "<f4",
		"compressor": null,
		"fill_value": 0.0,
		"order": "C",
		"dimension_separator": "/"
	}`

	zarrayPath := filepath.Join(tempDir, ".zarray")
	require.NoError(t, os.WriteFile(zarrayPath, []byte(mockJSON), 0644))

	f, err := os.Open(zarrayPath)
	require.NoError(t, err)
	defer f.Close()

	meta, err := zarr.LoadMetadata(f)
	require.NoError(t, err)
	require.Equal(t, []int64{128, 100}, meta.Shape)
	require.Equal(t, []int64{64, 64}, meta.Chunks)
	require.Equal(t, 2, meta.ZarrFormat)
	require.Equal(t, "<f4", meta.DType)
	require.Equal(t, "/", meta.Separator())
	require.Equal(t, transform.BoxFromShape([]int64{0, 0}, []int64{128, 100}), meta.Domain())

	g, err := meta.Grid()
	require.NoError(t, err)
	require.Equal(t, []int64{64, 64}, g.CellShape)
}

func TestLoadMetadataInvalid(t *testing.T) {
	tests := map[string]string{
		"format":    `{"zarr_format": 3, "shape": [4], "chunks": [2], "dtype": "<f4"}`,
		"dtype":     `{"zarr_format": 2, "shape": [4], "chunks": [2], "dtype": ">f4"}`,
		"rank":      `{"zarr_format": 2, "shape": [4, 4], "chunks": [2], "dtype": "<f4"}`,
		"chunks":    `{"zarr_format": 2, "shape": [4], "chunks": [0], "dtype": "<f4"}`,
		"separator": `{"zarr_format": 2, "shape": [4], "chunks": [2], "dtype": "<f4", "dimension_separator": "-"}`,
		"json":      `{"zarr_format": 2,`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := zarr.LoadMetadata(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}
