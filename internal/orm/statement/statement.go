// Package statement is the registry generated SQL statements are stored in. Statements are keyed
// by a namespaced id and looked up by the execution layer when a mapped operation runs.
package statement

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/conduit-lang/tablemeta/internal/orm/config"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
)

// CommandType is the kind of SQL command a statement issues
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandSelect
	CommandInsert
	CommandUpdate
	CommandDelete
)

// String returns the string representation of the command type
func (c CommandType) String() string {
	switch c {
	case CommandSelect:
		return "SELECT"
	case CommandInsert:
		return "INSERT"
	case CommandUpdate:
		return "UPDATE"
	case CommandDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// MappedStatement is a registered SQL statement
type MappedStatement struct {
	ID          string
	SQL         string
	CommandType CommandType
	ResultType  schema.ResultType
	KeyProperty string
	KeyColumn   string
}

// Queryer is satisfied by *sql.DB, *sql.Tx and *sql.Conn
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// KeyGenerator populates a parameter's key before or after its insert statement runs
type KeyGenerator interface {
	ProcessBefore(ctx context.Context, q Queryer, param any) error
	ProcessAfter(ctx context.Context, q Queryer, param any) error
}

// Configuration owns the global config plus every registered statement and key generator
type Configuration struct {
	Global *config.Global

	mu            sync.RWMutex
	statements    map[string]*MappedStatement
	keyGenerators map[string]KeyGenerator
}

// NewConfiguration creates a configuration, falling back to config.Default when global is nil
func NewConfiguration(global *config.Global) *Configuration {
	if global == nil {
		global = config.Default()
	}
	return &Configuration{
		Global:        global,
		statements:    make(map[string]*MappedStatement),
		keyGenerators: make(map[string]KeyGenerator),
	}
}

// AddMappedStatement registers a statement under its id
func (c *Configuration) AddMappedStatement(ms *MappedStatement) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.statements[ms.ID]; exists {
		return fmt.Errorf("mapped statements already contain %s", ms.ID)
	}
	c.statements[ms.ID] = ms
	return nil
}

// MappedStatement retrieves a statement by id
func (c *Configuration) MappedStatement(id string) (*MappedStatement, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ms, ok := c.statements[id]
	return ms, ok
}

// RemoveMappedStatement unregisters a statement and reports whether it was registered
func (c *Configuration) RemoveMappedStatement(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.statements[id]; !exists {
		return false
	}
	delete(c.statements, id)
	return true
}

// HasStatement checks if a statement id is registered
func (c *Configuration) HasStatement(id string) bool {
	_, ok := c.MappedStatement(id)
	return ok
}

// Statements returns all registered statements sorted by id
func (c *Configuration) Statements() []*MappedStatement {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*MappedStatement, 0, len(c.statements))
	for _, ms := range c.statements {
		result = append(result, ms)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// AddKeyGenerator registers a key generator under a statement id
func (c *Configuration) AddKeyGenerator(id string, kg KeyGenerator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.keyGenerators[id]; exists {
		return fmt.Errorf("key generators already contain %s", id)
	}
	c.keyGenerators[id] = kg
	return nil
}

// KeyGenerator retrieves a key generator by id
func (c *Configuration) KeyGenerator(id string) (KeyGenerator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kg, ok := c.keyGenerators[id]
	return kg, ok
}

////////////////////////////////////////////////////////////////////////////////

// Assistant registers statements on behalf of one namespace, usually one mapper
type Assistant struct {
	Namespace string
	Config    *Configuration
}

// NewAssistant creates an assistant bound to a namespace
func NewAssistant(cfg *Configuration, namespace string) *Assistant {
	return &Assistant{Namespace: namespace, Config: cfg}
}

// ApplyCurrentNamespace qualifies id with the assistant's namespace.
// References that already contain a dot are taken as qualified.
func (a *Assistant) ApplyCurrentNamespace(id string, isReference bool) (string, error) {
	if a.Namespace == "" {
		return id, nil
	}
	if isReference {
		if strings.Contains(id, ".") {
			return id, nil
		}
	} else {
		if strings.HasPrefix(id, a.Namespace+".") {
			return id, nil
		}
		if strings.Contains(id, ".") {
			return "", fmt.Errorf("dots are not allowed in element names, please remove it from %s", id)
		}
	}
	return a.Namespace + "." + id, nil
}

// AddMappedStatement namespaces the statement id and registers it
func (a *Assistant) AddMappedStatement(ms MappedStatement) (*MappedStatement, error) {
	id, err := a.ApplyCurrentNamespace(ms.ID, false)
	if err != nil {
		return nil, err
	}
	ms.ID = id
	if err := a.Config.AddMappedStatement(&ms); err != nil {
		return nil, err
	}
	return &ms, nil
}
