package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// descriptorFile is the on-disk layout of an entity descriptor file
type descriptorFile struct {
	Entities []entityDoc `yaml:"entities"`
}

type entityDoc struct {
	Package     string          `yaml:"package"`
	Name        string          `yaml:"name"`
	Table       *tableDoc       `yaml:"table"`
	KeySequence *keySequenceDoc `yaml:"key_sequence"`
	Parent      string          `yaml:"parent"`
	Framework   bool            `yaml:"framework"`
	Fields      []fieldDoc      `yaml:"fields"`
}

type tableDoc struct {
	Value     string `yaml:"value"`
	ResultMap string `yaml:"result_map"`
}

type keySequenceDoc struct {
	Value      string `yaml:"value"`
	ResultType string `yaml:"result_type"`
}

type fieldDoc struct {
	Name    string `yaml:"name"`
	ID      *idDoc `yaml:"id"`
	Column  string `yaml:"column"`
	El      string `yaml:"el"`
	Exclude bool   `yaml:"exclude"`
}

type idDoc struct {
	Column string `yaml:"column"`
	Type   string `yaml:"type"`
}

// LoadFile reads entity descriptors from a YAML file
func LoadFile(path string) ([]*Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file: %w", err)
	}
	entities, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entities, nil
}

// Parse decodes entity descriptors from YAML. Parents are referenced by name (simple or full)
// and must be declared in the same document.
func Parse(data []byte) ([]*Entity, error) {
	var doc descriptorFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptors: %w", err)
	}

	entities := make([]*Entity, 0, len(doc.Entities))
	byName := make(map[string]*Entity, len(doc.Entities)*2)
	for _, ed := range doc.Entities {
		e, err := ed.build()
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
		byName[e.FullName()] = e
		if _, taken := byName[e.Name]; !taken {
			byName[e.Name] = e
		}
	}

	for i, ed := range doc.Entities {
		if ed.Parent == "" {
			continue
		}
		parent, ok := byName[ed.Parent]
		if !ok {
			return nil, fmt.Errorf("entity %s: unknown parent %s", entities[i].FullName(), ed.Parent)
		}
		entities[i].Parent = parent
	}

	if err := NewHierarchy(entities).Validate(); err != nil {
		return nil, err
	}

	return entities, nil
}

func (ed entityDoc) build() (*Entity, error) {
	e := NewEntity(ed.Package, ed.Name)
	e.Framework = ed.Framework

	if ed.Table != nil {
		e.Table = &TableName{Value: ed.Table.Value, ResultMap: ed.Table.ResultMap}
	}
	if ed.KeySequence != nil {
		rt, err := ParseResultType(ed.KeySequence.ResultType)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.FullName(), err)
		}
		e.KeySequence = &KeySequence{Value: ed.KeySequence.Value, ResultType: rt}
	}

	for _, fd := range ed.Fields {
		f := &Field{Name: fd.Name}
		if fd.ID != nil {
			idType, err := ParseIDType(fd.ID.Type)
			if err != nil {
				return nil, fmt.Errorf("entity %s, field %s: %w", e.FullName(), fd.Name, err)
			}
			f.ID = &TableID{Value: fd.ID.Column, Type: idType}
		}
		if fd.Column != "" || fd.El != "" || fd.Exclude {
			f.Mapping = &TableField{Value: fd.Column, El: fd.El, Exclude: fd.Exclude}
		}
		e.Fields = append(e.Fields, f)
	}

	return e, nil
}
