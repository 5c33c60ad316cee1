package criteria

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogDocument struct {
	Disorders []Entry `yaml:"disorders"`
}

type yamlFileSource struct {
	path string
}

// NewYAMLFileSource reads entries from a YAML document with a top-level
// "disorders" list.
func NewYAMLFileSource(path string) Source {
	return &yamlFileSource{path: path}
}

func (s *yamlFileSource) Name() string { return "yaml:" + s.path }

func (s *yamlFileSource) Load(ctx context.Context) ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return DecodeYAML(bytes.NewReader(data))
}

func DecodeYAML(r io.Reader) ([]Entry, error) {
	var doc catalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return doc.Disorders, nil
}

func EncodeYAML(w io.Writer, entries []Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogDocument{Disorders: entries}); err != nil {
		return fmt.Errorf("encode catalog yaml: %w", err)
	}
	return enc.Close()
}
