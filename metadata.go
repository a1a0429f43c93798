package zarr

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/TuSKan/zarr-grid/grid"
	"github.com/TuSKan/zarr-grid/transform"
)

// CompressorConfig represents the Zarr compressor metadata.
type CompressorConfig struct {
	ID      string `json:"id"`
	Cname   string `json:"cname,omitempty"`
	Clevel  int    `json:"clevel,omitempty"`
	Shuffle int    `json:"shuffle,omitempty"`
}

// Metadata represents the Zarr V2 .zarray metadata.
type Metadata struct {
	ZarrFormat         int               `json:"zarr_format"`
	Shape              []int64           `json:"shape"`
	Chunks             []int64           `json:"chunks"`
	DType              string            `json:"dtype"`
	Compressor         *CompressorConfig `json:"compressor"`
	FillValue          interface{}       `json:"fill_value"`
	Order              string            `json:"order"`
	DimensionSeparator string            `json:"dimension_separator,omitempty"`
}

// LoadMetadata reads, parses and validates a .zarray document.
func LoadMetadata(reader io.Reader) (*Metadata, error) {
	var meta Metadata
	if err := json.NewDecoder(reader).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Validate checks the format version, the dtype and the agreement between
// shape and chunks.
func (m *Metadata) Validate() error {
	if m.ZarrFormat != 2 {
		return fmt.Errorf("unsupported zarr_format: %d, expected 2", m.ZarrFormat)
	}
	if _, _, err := ParseDType(m.DType); err != nil {
		return err
	}
	if len(m.Shape) != len(m.Chunks) {
		return fmt.Errorf("shape has rank %d but chunks has rank %d", len(m.Shape), len(m.Chunks))
	}
	for i := range m.Shape {
		if m.Shape[i] < 0 {
			return fmt.Errorf("negative extent %d in dimension %d", m.Shape[i], i)
		}
		if m.Chunks[i] <= 0 {
			return fmt.Errorf("chunk size %d in dimension %d must be positive", m.Chunks[i], i)
		}
	}
	switch m.DimensionSeparator {
	case "", ".", "/":
	default:
		return fmt.Errorf("unsupported dimension_separator: %q", m.DimensionSeparator)
	}
	return nil
}

// Separator returns the chunk key separator, "." unless the metadata says
// otherwise.
func (m *Metadata) Separator() string {
	if m.DimensionSeparator == "" {
		return "."
	}
	return m.DimensionSeparator
}

// Grid returns the regular chunk grid of the array.
func (m *Metadata) Grid() (grid.Regular, error) {
	return grid.NewRegular(m.Chunks...)
}

// Domain returns the index domain of the array, [0, shape) per dimension.
func (m *Metadata) Domain() transform.Box {
	return transform.BoxFromShape(make([]int64, len(m.Shape)), m.Shape)
}

// dtypeKinds names the numpy kind characters, sized in bits where the name
// carries a width.
var dtypeKinds = map[byte]string{
	'b': "bool",
	'i': "int",
	'u': "uint",
	'f': "float",
	'c': "complex",
}

// ParseDType decodes a numpy type string such as "<f4" or "|b1" into a
// type name ("float32", "bool") and its element size in bytes. Only
// little-endian and byte-order-free types are accepted.
func ParseDType(s string) (string, int, error) {
	if len(s) < 3 {
		return "", 0, fmt.Errorf("invalid dtype: %q", s)
	}
	switch s[0] {
	case '<', '|':
	case '>':
		return "", 0, fmt.Errorf("big-endian dtype %q is unsupported", s)
	default:
		return "", 0, fmt.Errorf("invalid byte order in dtype %q", s)
	}
	name, ok := dtypeKinds[s[1]]
	if !ok {
		return "", 0, fmt.Errorf("unsupported dtype kind %q in %q", s[1], s)
	}
	size, err := strconv.Atoi(s[2:])
	if err != nil || size <= 0 {
		return "", 0, fmt.Errorf("invalid size in dtype %q", s)
	}
	if name == "bool" {
		return name, size, nil
	}
	return name + strconv.Itoa(size*8), size, nil
}
