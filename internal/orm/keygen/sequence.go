package keygen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/conduit-lang/tablemeta/internal/orm/config"
)

// Postgres fetches keys with nextval. The sequence name is passed as a quoted literal.
type Postgres struct{}

// ExecuteSQL returns the next-value query for a sequence
func (Postgres) ExecuteSQL(incrementerName string) string {
	return "select nextval(" + pq.QuoteLiteral(incrementerName) + ")"
}

// Oracle fetches keys from DUAL
type Oracle struct{}

// ExecuteSQL returns the next-value query for a sequence
func (Oracle) ExecuteSQL(incrementerName string) string {
	return "SELECT " + incrementerName + ".NEXTVAL FROM DUAL"
}

// H2 fetches keys with a sequence pseudo column
type H2 struct{}

// ExecuteSQL returns the next-value query for a sequence
func (H2) ExecuteSQL(incrementerName string) string {
	return "select " + incrementerName + ".nextval"
}

// DB2 fetches keys with a values clause
type DB2 struct{}

// ExecuteSQL returns the next-value query for a sequence
func (DB2) ExecuteSQL(incrementerName string) string {
	return "values nextval for " + incrementerName
}

var generators = map[string]config.SequenceGenerator{
	"postgres":   Postgres{},
	"postgresql": Postgres{},
	"oracle":     Oracle{},
	"h2":         H2{},
	"db2":        DB2{},
}

// ByName returns the sequence generator registered for a database name.
// The empty name returns nil, which leaves sequence keys disabled.
func ByName(name string) (config.SequenceGenerator, error) {
	if name == "" {
		return nil, nil
	}
	gen, ok := generators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown sequence generator %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	return gen, nil
}

// Names lists the registered sequence generator names
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
