package params

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML parameter file. Keys missing from the file keep their
// Default values; unknown keys are an error.
func Load(path string) (GlobalParams, error) {
	return LoadOnto(path, Default())
}

// LoadOnto reads a YAML parameter file over base, so keys missing from the
// file keep base's values
func LoadOnto(path string, base GlobalParams) (GlobalParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return GlobalParams{}, errors.Wrap(err, "open params file")
	}
	defer f.Close()

	p, err := DecodeOnto(f, base)
	if err != nil {
		return GlobalParams{}, errors.Wrapf(err, "load %s", path)
	}
	return p, nil
}

// Parse decodes YAML parameter data held in memory
func Parse(data []byte) (GlobalParams, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads YAML from r on top of Default and validates the result
func Decode(r io.Reader) (GlobalParams, error) {
	return DecodeOnto(r, Default())
}

// DecodeOnto reads YAML from r on top of base and validates the result
func DecodeOnto(r io.Reader, base GlobalParams) (GlobalParams, error) {
	p := base

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return GlobalParams{}, errors.Wrap(err, "decode params")
	}

	if err := p.Validate(); err != nil {
		return GlobalParams{}, err
	}
	return p, nil
}
