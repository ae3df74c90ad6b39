// Package keygen installs the select-key statements that fetch sequence backed primary keys
// before an insert runs, and assigns the key to the insert parameter.
package keygen

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conduit-lang/tablemeta/internal/orm/metadata"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
	"github.com/conduit-lang/tablemeta/internal/orm/statement"
)

// SelectKeySuffix is appended to the base statement id to form the select-key statement id
const SelectKeySuffix = "!selectKey"

// SelectKeyGenerator runs a registered select-key statement and stores its value on the key property
type SelectKeyGenerator struct {
	Statement *statement.MappedStatement
	// ExecuteBefore is true for sequence keys, which are fetched before the insert runs
	ExecuteBefore bool
}

// Install builds the select-key statement of a sequence backed table, registers it under
// baseStatementID+SelectKeySuffix in the assistant's namespace and registers the returned
// generator under the same id. Installing the same id twice fails, and a failed install leaves
// neither registered.
func Install(info *metadata.TableInfo, assistant *statement.Assistant, baseStatementID string) (*SelectKeyGenerator, error) {
	if info == nil {
		return nil, fmt.Errorf("cannot install select key for nil table")
	}
	if assistant == nil || assistant.Config == nil {
		return nil, fmt.Errorf("cannot install select key for %s without a configuration", info.Entity)
	}

	global := assistant.Config.Global
	if global == nil || global.SequenceGenerator == nil {
		return nil, metadata.NewError(metadata.KindMissingGenerator, info.Entity,
			"no sequence generator configured, cannot install select key for %s", info.Entity)
	}
	if info.KeySequence == nil || info.KeySequence.Value == "" {
		return nil, metadata.NewError(metadata.KindMissingSequence, info.Entity,
			"entity %s declares no key sequence", info.Entity)
	}
	if !info.HasKey() {
		return nil, metadata.NewError(metadata.KindMissingSequence, info.Entity,
			"entity %s has no primary key to assign its key sequence to", info.Entity)
	}

	ms, err := assistant.AddMappedStatement(statement.MappedStatement{
		ID:          baseStatementID + SelectKeySuffix,
		SQL:         global.SequenceGenerator.ExecuteSQL(info.KeySequence.Value),
		CommandType: statement.CommandSelect,
		ResultType:  info.KeySequence.ResultType,
		KeyProperty: info.KeyProperty,
		KeyColumn:   info.KeyColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register select key for %s: %w", info.Entity, err)
	}

	kg := &SelectKeyGenerator{Statement: ms, ExecuteBefore: true}
	if err := assistant.Config.AddKeyGenerator(ms.ID, kg); err != nil {
		// Leave nothing registered when the pair cannot be installed
		assistant.Config.RemoveMappedStatement(ms.ID)
		return nil, fmt.Errorf("failed to register key generator for %s: %w", info.Entity, err)
	}

	return kg, nil
}

// ProcessBefore fetches the next key and assigns it to param
func (g *SelectKeyGenerator) ProcessBefore(ctx context.Context, q statement.Queryer, param any) error {
	if !g.ExecuteBefore {
		return nil
	}
	return g.process(ctx, q, param)
}

// ProcessAfter is a no-op for sequence keys
func (g *SelectKeyGenerator) ProcessAfter(ctx context.Context, q statement.Queryer, param any) error {
	if g.ExecuteBefore {
		return nil
	}
	return g.process(ctx, q, param)
}

// NextKey runs the select-key statement and returns the value it yields
func (g *SelectKeyGenerator) NextKey(ctx context.Context, q statement.Queryer) (any, error) {
	row := q.QueryRowContext(ctx, g.Statement.SQL)

	switch g.Statement.ResultType {
	case schema.ResultString:
		var key sql.NullString
		if err := row.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to fetch key for %s: %w", g.Statement.ID, err)
		}
		if !key.Valid {
			return nil, fmt.Errorf("select key %s returned null", g.Statement.ID)
		}
		return key.String, nil
	default:
		var key sql.NullInt64
		if err := row.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to fetch key for %s: %w", g.Statement.ID, err)
		}
		if !key.Valid {
			return nil, fmt.Errorf("select key %s returned null", g.Statement.ID)
		}
		return key.Int64, nil
	}
}

func (g *SelectKeyGenerator) process(ctx context.Context, q statement.Queryer, param any) error {
	if param == nil {
		return nil
	}
	key, err := g.NextKey(ctx, q)
	if err != nil {
		return err
	}
	return setProperty(param, g.Statement.KeyProperty, key)
}

// Interface compliance
var _ statement.KeyGenerator = (*SelectKeyGenerator)(nil)
