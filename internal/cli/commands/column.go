package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/tablemeta/internal/cli/ui"
	"github.com/conduit-lang/tablemeta/internal/orm/metadata"
)

func newColumnCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "column <entity> <accessor>",
		Short: "Show the column a field accessor maps to",
		Long: `Resolve an entity and print the column its field accessor maps to.

The accessor may be a getter (GetUserName, getUserName, IsActive) or the
field name itself (UserName).`,
		Example:           `  tablemeta column User GetUserName`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeEntities(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			e, err := a.lookup(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			info, err := a.resolve(e, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			column, err := metadata.NewColumnResolver(a.resolver).ToColumn(e.Ref(args[1]))
			if err != nil {
				if errors.Is(err, metadata.ErrConfiguration) {
					var properties []string
					for _, f := range info.FieldList {
						properties = append(properties, f.Property)
					}
					property := metadata.PropertyName(args[1])
					fmt.Fprint(cmd.ErrOrStderr(), ui.MappingError(err.Error(), ui.FindSimilar(property, properties, nil), opts.noColor))
					return errReported
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), column)
			return nil
		},
	}
}
