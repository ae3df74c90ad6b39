package metadata

import (
	"sync/atomic"

	"github.com/conduit-lang/tablemeta/internal/orm/schema"
	"github.com/conduit-lang/tablemeta/internal/orm/statement"
)

// TableFieldInfo maps one field onto one column.
// A field mapped to several columns yields one TableFieldInfo per column.
type TableFieldInfo struct {
	Property string
	Column   string
	// El is the expression the query layer binds instead of the bare property
	El string
	// Related is true when the column name differs from the property name
	Related bool
}

// TableInfo is the resolved relational mapping of a record type.
// It is shared by every caller once cached and must not be modified; only the configuration mark
// moves when the type is resolved again under another configuration.
type TableInfo struct {
	Entity      string // fully-qualified type name
	TableName   string
	KeyColumn   string
	KeyProperty string
	KeyType     schema.IDType
	KeyRelated  bool // key column named explicitly or snake-cased
	ResultMap   string
	KeySequence *schema.KeySequence
	Namespace   string
	FieldList   []*TableFieldInfo

	configMark atomic.Pointer[statement.Configuration]
}

// ConfigMark returns the configuration this table was last resolved under
func (t *TableInfo) ConfigMark() *statement.Configuration {
	return t.configMark.Load()
}

func (t *TableInfo) mark(cfg *statement.Configuration) {
	if cfg != nil {
		t.configMark.Store(cfg)
	}
}

// HasKey reports whether a primary key was resolved
func (t *TableInfo) HasKey() bool {
	return t.KeyColumn != ""
}

// NeedsSelectKey reports whether the key is fetched from a sequence before insert
func (t *TableInfo) NeedsSelectKey() bool {
	return t.KeySequence != nil
}

// Field returns the first column mapping of a property
func (t *TableInfo) Field(property string) (*TableFieldInfo, bool) {
	for _, f := range t.FieldList {
		if f.Property == property {
			return f, true
		}
	}
	return nil, false
}

// Columns returns every mapped column, key first
func (t *TableInfo) Columns() []string {
	columns := make([]string, 0, len(t.FieldList)+1)
	if t.HasKey() {
		columns = append(columns, t.KeyColumn)
	}
	for _, f := range t.FieldList {
		columns = append(columns, f.Column)
	}
	return columns
}
