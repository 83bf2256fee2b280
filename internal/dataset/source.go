package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Source reads the raw header and data rows of a tabular file.
type Source interface {
	CanRead(path string) bool
	Read(path string, opt LoadOptions) (header []string, rows [][]string, err error)
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

func sourceFor(path string) (Source, error) {
	for _, s := range registry {
		if s.CanRead(path) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

func init() {
	Register(xlsxSource{})
	Register(csvSource{})
}

var (
	// ErrUnsupportedFormat indicates no source can read the file extension.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrMissingColumn indicates a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnparsableTime indicates a Time cell could not be parsed as a timestamp.
	ErrUnparsableTime = errors.New("unparsable timestamp")
	// ErrInvalidNumber indicates a consumption cell is not numeric.
	ErrInvalidNumber = errors.New("invalid consumption value")
)
