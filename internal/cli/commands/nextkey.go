package commands

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/tablemeta/internal/orm/keygen"
	"github.com/conduit-lang/tablemeta/internal/orm/transaction"
)

// openDB opens the database the select-key statement runs against
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func newNextKeyCommand(opts *rootOptions) *cobra.Command {
	var (
		dsn         string
		generator   string
		statementID string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "nextkey <entity>",
		Short: "Fetch the next sequence key of an entity",
		Long: `Install the select-key statement of a sequence keyed entity and run it.

The entity must declare a key_sequence and a sequence generator must be
configured (database.sequence_generator or --generator). The statement
runs against PostgreSQL through the pgx driver unless --dry-run is set.`,
		Example: `  # Print the statement only
  tablemeta nextkey User --generator postgres --dry-run

  # Fetch a key
  tablemeta nextkey User --dsn postgres://localhost/app`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeEntities(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			if generator != "" {
				gen, err := keygen.ByName(generator)
				if err != nil {
					return err
				}
				a.configuration.Global.SequenceGenerator = gen
			}

			e, err := a.lookup(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			info, err := a.resolve(e, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			kg, err := keygen.Install(info, a.assistant(e), statementID)
			if err != nil {
				return err
			}
			a.logger.Debug("installed select key",
				zap.String("statement", kg.Statement.ID),
				zap.String("sql", kg.Statement.SQL))

			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), kg.Statement.SQL)
				return nil
			}

			if dsn == "" {
				dsn = a.cfg.DatabaseURL()
			}
			if dsn == "" {
				return fmt.Errorf("no database URL: pass --dsn, set DATABASE_URL or database.url")
			}

			db, err := openDB(dsn)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			var key any
			err = transaction.NewManager(db).WithTransaction(cmd.Context(), func(tx *sql.Tx) error {
				key, err = kg.NextKey(cmd.Context(), tx)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Database URL (default: DATABASE_URL or database.url)")
	cmd.Flags().StringVar(&generator, "generator", "", "Sequence generator: postgres, oracle, h2 or db2")
	cmd.Flags().StringVar(&statementID, "statement", "insert", "Base id of the insert statement")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the select-key statement without running it")

	return cmd
}
