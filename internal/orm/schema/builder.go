package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	ustrings "github.com/conduit-lang/tablemeta/internal/util/strings"
)

// TagName is the struct tag FromStruct reads.
//
//	ID       int64   `tablemeta:"user_id,id=auto"`
//	UserName string  // column derived from the field name
//	Location string  `tablemeta:"lng;lat,el=lng;lat"`
//	Scratch  string  `tablemeta:"-"` // not persisted
const TagName = "tablemeta"

// Model is the framework base type. Embed it to mark the top of a record type's ancestor chain;
// FromStruct stops enumeration there.
type Model struct{}

// Tabler lets a record type declare its table name
type Tabler interface {
	TableName() string
}

// Sequencer lets a record type declare the sequence feeding its primary key
type Sequencer interface {
	KeySequence() KeySequence
}

var (
	modelType   = reflect.TypeOf(Model{})
	modelEntity = &Entity{Package: modelType.PkgPath(), Name: modelType.Name(), Framework: true}

	tablerType    = reflect.TypeOf((*Tabler)(nil)).Elem()
	sequencerType = reflect.TypeOf((*Sequencer)(nil)).Elem()

	structCache sync.Map // map[reflect.Type]*Entity
)

// FromStruct builds an entity descriptor from a struct value or pointer, reading `tablemeta` tags.
// Embedded structs become the ancestor chain. Descriptors are cached per type.
func FromStruct(v any) (*Entity, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("given nil, expected struct")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return fromType(t, make(map[reflect.Type]bool))
}

// MustFromStruct is FromStruct that panics on error, for package level descriptors.
func MustFromStruct(v any) *Entity {
	e, err := FromStruct(v)
	if err != nil {
		panic(err)
	}
	return e
}

// fromType builds or loads the descriptor of t. building holds the types whose descriptors are
// under construction further up the embedding chain.
func fromType(t reflect.Type, building map[reflect.Type]bool) (*Entity, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("given %v, expected struct", t.Kind())
	}
	if t == modelType {
		return modelEntity, nil
	}
	if e, ok := structCache.Load(t); ok {
		return e.(*Entity), nil
	}
	if building[t] {
		return nil, fmt.Errorf("%s embeds itself", t.Name())
	}
	building[t] = true
	defer delete(building, t)

	e, err := newEntity(t, building)
	if err != nil {
		return nil, err
	}
	eCache, _ := structCache.LoadOrStore(t, e)
	return eCache.(*Entity), nil
}

func newEntity(t reflect.Type, building map[reflect.Type]bool) (*Entity, error) {
	e := NewEntity(t.PkgPath(), t.Name())
	if e.Name == "" {
		return nil, fmt.Errorf("anonymous struct types cannot be record types")
	}

	zero := reflect.New(t)
	if zero.Type().Implements(tablerType) {
		e.Table = &TableName{Value: zero.Interface().(Tabler).TableName()}
	}
	if zero.Type().Implements(sequencerType) {
		seq := zero.Interface().(Sequencer).KeySequence()
		e.KeySequence = &seq
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if e.Parent != nil {
					return nil, fmt.Errorf("%s embeds more than one struct", t.Name())
				}
				parent, err := fromType(ft, building)
				if err != nil {
					return nil, fmt.Errorf("failed to process embedded struct %s: %w", sf.Name, err)
				}
				e.Parent = parent
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		field, err := newField(sf)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		e.Fields = append(e.Fields, field)
	}

	return e, nil
}

func newField(sf reflect.StructField) (*Field, error) {
	field := &Field{Name: ustrings.ToLowerCamel(sf.Name)}

	tag, ok := sf.Tag.Lookup(TagName)
	if !ok {
		return field, nil
	}
	if tag == "-" {
		field.Mapping = &TableField{Exclude: true}
		return field, nil
	}

	column, opts := parseTag(tag)
	if idOpt, ok := opts.Get("id"); ok {
		idType, err := ParseIDType(idOpt)
		if err != nil {
			return nil, err
		}
		field.ID = &TableID{Value: column, Type: idType}
		return field, nil
	}

	el, _ := opts.Get("el")
	field.Mapping = &TableField{Value: column, El: el}
	return field, nil
}

////////////////////////////////////////////////////////////////////////////////

// tagOptions is the string following a comma in a struct field's tag, or the empty string.
// It does not include the leading comma.
type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	tag, opt, _ := strings.Cut(tag, ",")
	return tag, tagOptions(opt)
}

// Get reports whether the comma-separated options contain name, either bare or as name=value,
// and returns the value.
func (o tagOptions) Get(optionName string) (string, bool) {
	s := string(o)
	for s != "" {
		var opt string
		opt, s, _ = strings.Cut(s, ",")
		name, value, _ := strings.Cut(opt, "=")
		if name == optionName {
			return value, true
		}
	}
	return "", false
}
