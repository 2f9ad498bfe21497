package shortcut

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/composer/compose"
)

// LoadDescriptors decodes a YAML descriptor list.
func LoadDescriptors(r io.Reader) ([]Descriptor, error) {
	var descs []Descriptor
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&descs); err != nil {
		return nil, fmt.Errorf("decode descriptors: %w", err)
	}
	return descs, nil
}

// paramsDoc is the YAML shape of a parameter object.
type paramsDoc struct {
	Distinct   bool           `yaml:"distinct,omitempty"`
	Fields     []string       `yaml:"fields,omitempty"`
	Tables     []string       `yaml:"tables,omitempty"`
	Subqueries map[string]any `yaml:"subqueries,omitempty"`
	GroupBy    []string       `yaml:"groupBy,omitempty"`
	Sorting    []sortDoc      `yaml:"sorting,omitempty"`
	Limit      *int           `yaml:"limit,omitempty"`
	Constants  map[string]any `yaml:"constants,omitempty"`
}

// sortDoc accepts either a bare key or a {key, direction} mapping.
type sortDoc struct {
	Key       string
	Direction string
}

func (s *sortDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.Key)
	}
	var doc struct {
		Key       string `yaml:"key"`
		Direction string `yaml:"direction"`
	}
	if err := node.Decode(&doc); err != nil {
		return err
	}
	s.Key, s.Direction = doc.Key, doc.Direction
	return nil
}

// LoadParams decodes a YAML parameter object into apply params.
func LoadParams(r io.Reader) (*compose.Params, error) {
	var doc paramsDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	p := &compose.Params{
		Distinct:   doc.Distinct,
		Tables:     doc.Tables,
		Subqueries: doc.Subqueries,
		Constants:  doc.Constants,
	}
	for _, f := range doc.Fields {
		p.Fields = append(p.Fields, f)
	}
	for _, g := range doc.GroupBy {
		p.GroupBy = append(p.GroupBy, g)
	}
	for _, s := range doc.Sorting {
		if s.Direction == "" {
			p.Sorting = append(p.Sorting, s.Key)
			continue
		}
		p.Sorting = append(p.Sorting, compose.SortKey{Key: s.Key, Direction: s.Direction})
	}
	if doc.Limit != nil {
		p.Limit = *doc.Limit
	}
	return p, nil
}
