// Package metadata resolves record type descriptors into cached table metadata.
//
// A Resolver is constructed once at startup and injected wherever table metadata is needed.
// The first Resolve of a type derives its TableInfo from the type's directives, the global
// configuration and the naming transforms; every later call returns the same instance.
package metadata

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/tablemeta/internal/orm/config"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
	"github.com/conduit-lang/tablemeta/internal/orm/statement"
	ustrings "github.com/conduit-lang/tablemeta/internal/util/strings"
)

// DefaultIDName is the field name treated as primary key when no field declares one
const DefaultIDName = "id"

// Resolver builds and caches TableInfo per record type
type Resolver struct {
	logger *zap.Logger

	// tables is read lock-free; mu serializes construction.
	tables sync.Map // map[string]*TableInfo
	mu     sync.Mutex
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for resolution warnings
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a new resolver with an empty cache
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the table metadata of an entity, building it on first use.
// A nil assistant resolves against config.Default. When the entity is already cached only its
// configuration mark is updated. A failed resolution caches nothing.
func (r *Resolver) Resolve(e *schema.Entity, assistant *statement.Assistant) (*TableInfo, error) {
	if e == nil {
		return nil, fmt.Errorf("cannot resolve nil entity")
	}
	name := e.FullName()
	if loop := schema.CycleStart(e); loop != nil {
		return nil, NewError(KindInheritanceCycle, name,
			"ancestor chain of %s loops back to %s", name, loop.FullName())
	}

	if info, ok := r.Table(name); ok {
		info.mark(configOf(assistant))
		return info, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double check, another caller may have built it while we waited
	if info, ok := r.Table(name); ok {
		info.mark(configOf(assistant))
		return info, nil
	}

	info, err := r.build(e, assistant)
	if err != nil {
		return nil, err
	}
	r.tables.Store(name, info)

	return info, nil
}

// Table returns the cached metadata of an entity by full name, without resolving it
func (r *Resolver) Table(name string) (*TableInfo, bool) {
	v, ok := r.tables.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*TableInfo), true
}

// TableFor returns the cached metadata of an entity, without resolving it
func (r *Resolver) TableFor(e *schema.Entity) (*TableInfo, bool) {
	return r.Table(e.FullName())
}

// Tables returns every cached TableInfo sorted by entity name
func (r *Resolver) Tables() []*TableInfo {
	var tables []*TableInfo
	r.tables.Range(func(_, v any) bool {
		tables = append(tables, v.(*TableInfo))
		return true
	})
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Entity < tables[j].Entity
	})
	return tables
}

// Reset drops every cached entry. Only test harnesses should call it.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables.Range(func(k, _ any) bool {
		r.tables.Delete(k)
		return true
	})
}

////////////////////////////////////////////////////////////////////////////////

func configOf(assistant *statement.Assistant) *statement.Configuration {
	if assistant == nil {
		return nil
	}
	return assistant.Config
}

func (r *Resolver) build(e *schema.Entity, assistant *statement.Assistant) (*TableInfo, error) {
	info := &TableInfo{Entity: e.FullName()}

	global := config.Default()
	if assistant != nil {
		info.Namespace = assistant.Namespace
		if assistant.Config != nil {
			info.mark(assistant.Config)
			if assistant.Config.Global != nil {
				global = assistant.Config.Global
			}
		}
	}
	db := global.DB

	info.TableName = tableName(e, db)

	if global.SequenceGenerator != nil {
		info.KeySequence = e.KeySequence
	}
	if e.Table != nil && e.Table.ResultMap != "" {
		info.ResultMap = e.Table.ResultMap
	}

	fields := schema.Enumerate(e)
	explicitKey := schema.HasTableID(fields)
	keyTypeDeclared := false

	for _, f := range fields {
		if explicitKey {
			if f.ID != nil {
				if info.KeyProperty != "" {
					return nil, duplicateKeyError(info, f)
				}
				keyTypeDeclared = initTableID(db, info, f)
				continue
			}
		} else if isDefaultID(db, f) {
			if info.KeyProperty != "" {
				return nil, duplicateKeyError(info, f)
			}
			initFieldID(db, info, f)
			continue
		}

		columns, err := initTableField(db, info, f)
		if err != nil {
			return nil, err
		}
		info.FieldList = append(info.FieldList, columns...)
	}

	if info.KeySequence != nil && info.HasKey() && !keyTypeDeclared {
		info.KeyType = schema.IDSequence
	}

	if !info.HasKey() {
		r.logger.Warn("could not find primary key, key based operations are unavailable",
			zap.String("entity", info.Entity))
	}

	return info, nil
}

// tableName applies, in order: explicit name, snake case, upper case or first-lower, prefix
func tableName(e *schema.Entity, db config.DBConfig) string {
	if e.Table != nil && e.Table.Value != "" {
		return e.Table.Value
	}

	name := e.Name
	if db.TableUnderline {
		name = ustrings.ToSnakeCase(name)
	}
	if db.CapitalMode {
		name = strings.ToUpper(name)
	} else {
		name = ustrings.FirstToLower(name)
	}
	if db.TablePrefix != "" {
		name = db.TablePrefix + name
	}
	return name
}

// initTableID records a field carrying the primary-key directive and reports whether the
// directive chose its own strategy.
func initTableID(db config.DBConfig, info *TableInfo, f *schema.Field) bool {
	declared := f.ID.Type != schema.IDNone
	if declared {
		info.KeyType = f.ID.Type
	} else {
		info.KeyType = db.IDType
	}

	column := f.Name
	if f.ID.Value != "" {
		column = f.ID.Value
		info.KeyRelated = true
	} else {
		if db.ColumnUnderline {
			column = ustrings.ToSnakeCase(column)
			info.KeyRelated = true
		}
		if db.CapitalMode {
			column = strings.ToUpper(column)
		}
	}

	info.KeyColumn = column
	info.KeyProperty = f.Name
	return declared
}

func isDefaultID(db config.DBConfig, f *schema.Field) bool {
	return strings.EqualFold(defaultIDColumn(db, f), DefaultIDName)
}

func defaultIDColumn(db config.DBConfig, f *schema.Field) string {
	if db.CapitalMode {
		return strings.ToUpper(f.Name)
	}
	return f.Name
}

// initFieldID records a field named id as primary key when no field declares one
func initFieldID(db config.DBConfig, info *TableInfo, f *schema.Field) {
	info.KeyType = db.IDType
	info.KeyColumn = defaultIDColumn(db, f)
	info.KeyProperty = f.Name
}

// initTableField maps a non-key field onto its columns. A mapping directive may list several
// columns and expressions separated by semicolons; both lists must be the same length.
func initTableField(db config.DBConfig, info *TableInfo, f *schema.Field) ([]*TableFieldInfo, error) {
	explicit := f.Mapping != nil && f.Mapping.Value != ""

	column := f.Name
	if explicit {
		column = f.Mapping.Value
	}
	el := f.Name
	if f.Mapping != nil && f.Mapping.El != "" {
		el = f.Mapping.El
	}

	columns := strings.Split(column, ";")
	els := strings.Split(el, ";")
	if len(columns) != len(els) {
		err := NewError(KindArityMismatch, info.Entity,
			"entity %s, field %s: column list (%d) and expression list (%d) must have the same length",
			info.Entity, f.Name, len(columns), len(els))
		err.Field = f.Name
		return nil, err
	}

	result := make([]*TableFieldInfo, len(columns))
	for i := range columns {
		col := strings.TrimSpace(columns[i])
		if !explicit {
			col = defaultColumn(db, col)
		}
		result[i] = &TableFieldInfo{
			Property: f.Name,
			Column:   col,
			El:       strings.TrimSpace(els[i]),
			Related:  col != f.Name,
		}
	}
	return result, nil
}

func defaultColumn(db config.DBConfig, name string) string {
	if db.ColumnUnderline {
		name = ustrings.ToSnakeCase(name)
	}
	if db.CapitalMode {
		name = strings.ToUpper(name)
	}
	return name
}

func duplicateKeyError(info *TableInfo, f *schema.Field) error {
	err := NewError(KindDuplicateKey, info.Entity,
		"there must be only one primary key, found %s and %s in %s",
		info.KeyProperty, f.Name, info.Entity)
	err.Field = f.Name
	return err
}
