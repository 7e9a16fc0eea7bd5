package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// YAML reads a seed file: a list of trucks, optionally under a "trucks" key.
//
//	trucks:
//	  - applicant: Taco Bell Truck
//	    address: 100 Main St
//	    status: APPROVED
//	    latitude: 37.7749
//	    longitude: -122.4194
type YAML struct {
	Path string
}

func NewYAML(path string) *YAML {
	return &YAML{Path: path}
}

func (s *YAML) Name() string { return "yaml:" + s.Path }

func (s *YAML) Load(_ context.Context) (Batch, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return Batch{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	return ParseYAML(f)
}

type yamlTruck struct {
	Applicant string   `yaml:"applicant"`
	Address   string   `yaml:"address"`
	Status    string   `yaml:"status"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

// ParseYAML decodes a seed document.
func ParseYAML(r io.Reader) (Batch, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, fmt.Errorf("yaml: empty input")
		}
		return Batch{}, fmt.Errorf("yaml: %w", err)
	}

	var trucks []yamlTruck
	if err := decodeTrucks(&node, &trucks); err != nil {
		return Batch{}, err
	}

	var b Batch
	for _, t := range trucks {
		b.add(t.Applicant, t.Address, t.Status, t.Latitude, t.Longitude)
	}
	return b, nil
}

func decodeTrucks(node *yaml.Node, out *[]yamlTruck) error {
	doc := node
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(out); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		return nil
	case yaml.MappingNode:
		var wrapped struct {
			Trucks []yamlTruck `yaml:"trucks"`
		}
		if err := doc.Decode(&wrapped); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		*out = wrapped.Trucks
		return nil
	default:
		return fmt.Errorf("yaml: expected a list of trucks")
	}
}
