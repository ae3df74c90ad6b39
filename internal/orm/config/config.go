// Package config holds the global mapping configuration shared by every record type: database
// naming flags, the default primary-key strategy and the optional sequence generator.
package config

import (
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
)

// SequenceGenerator produces the SQL that fetches the next value of a database sequence
type SequenceGenerator interface {
	ExecuteSQL(incrementerName string) string
}

// DBConfig represents the database naming configuration
type DBConfig struct {
	// TableUnderline derives table names as snake_case
	TableUnderline bool
	// ColumnUnderline derives column names as snake_case
	ColumnUnderline bool
	// CapitalMode upper-cases derived names
	CapitalMode bool
	// TablePrefix is prepended to derived table names
	TablePrefix string
	// IDType is the default primary-key strategy
	IDType schema.IDType
}

// Global is the configuration the resolver reads when deriving table metadata
type Global struct {
	DB DBConfig

	// SequenceGenerator enables sequence backed keys, nil disables them.
	SequenceGenerator SequenceGenerator
}

// Default returns the default global configuration
func Default() *Global {
	return &Global{
		DB: DBConfig{
			TableUnderline: true,
			IDType:         schema.IDAuto,
		},
	}
}
