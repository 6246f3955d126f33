// Package pricefile reads and writes the YAML price-series files
// exchanged between the download and backtest commands.
package pricefile

import (
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/backtest-api/pkg/errors"
)

// FormatVersion is the version of the price file format written by this
// build. Readers accept any file whose major version matches.
const FormatVersion = "1.0.0"

// PriceFile is a stored historical price series.
type PriceFile struct {
	Version string    `yaml:"version"`
	Symbol  string    `yaml:"symbol"`
	Prices  []float64 `yaml:"prices"`
}

// Write stores a price series at path using the current format version.
func Write(path string, symbol string, prices []float64) error {
	file := PriceFile{
		Version: FormatVersion,
		Symbol:  symbol,
		Prices:  prices,
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return errors.Wrap(errors.ErrCodePriceFileError, "failed to marshal price file", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodePriceFileError, "failed to write price file", err)
	}

	return nil
}

// Read loads a price series from path, rejecting files written with an
// incompatible (different major) format version.
func Read(path string) (*PriceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePriceFileError, "failed to read price file", err)
	}

	var file PriceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodePriceFileError, "failed to parse price file", err)
	}

	if err := checkFormatVersion(file.Version); err != nil {
		return nil, err
	}

	if len(file.Prices) < 2 {
		return nil, errors.Newf(errors.ErrCodeInsufficientData, "price file needs at least 2 prices, got %d", len(file.Prices))
	}

	return &file, nil
}

func checkFormatVersion(fileVersion string) error {
	if fileVersion == "" {
		return errors.New(errors.ErrCodeInvalidVersion, "price file has no format version")
	}

	parsed, err := semver.NewVersion(fileVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid price file version %q", fileVersion)
	}

	current := semver.MustParse(FormatVersion)
	if parsed.Major() != current.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"incompatible price file version: file is %d.x.x but this build reads %d.x.x", parsed.Major(), current.Major())
	}

	return nil
}
