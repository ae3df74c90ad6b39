package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/tablemeta/internal/cli/ui"
	"github.com/conduit-lang/tablemeta/internal/orm/metadata"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
)

// tableView is the JSON form of a resolved TableInfo
type tableView struct {
	Entity      string      `json:"entity"`
	Table       string      `json:"table"`
	KeyColumn   string      `json:"key_column,omitempty"`
	KeyProperty string      `json:"key_property,omitempty"`
	KeyType     string      `json:"key_type"`
	KeyRelated  bool        `json:"key_related"`
	ResultMap   string      `json:"result_map,omitempty"`
	KeySequence string      `json:"key_sequence,omitempty"`
	Namespace   string      `json:"namespace,omitempty"`
	Fields      []fieldView `json:"fields"`
}

type fieldView struct {
	Property string `json:"property"`
	Column   string `json:"column"`
	El       string `json:"el"`
	Related  bool   `json:"related"`
}

func newTableView(info *metadata.TableInfo) tableView {
	view := tableView{
		Entity:      info.Entity,
		Table:       info.TableName,
		KeyColumn:   info.KeyColumn,
		KeyProperty: info.KeyProperty,
		KeyType:     info.KeyType.String(),
		KeyRelated:  info.KeyRelated,
		ResultMap:   info.ResultMap,
		Namespace:   info.Namespace,
		Fields:      make([]fieldView, 0, len(info.FieldList)),
	}
	if !info.HasKey() {
		view.KeyType = schema.IDNone.String()
	}
	if info.KeySequence != nil {
		view.KeySequence = info.KeySequence.Value
	}
	for _, f := range info.FieldList {
		view.Fields = append(view.Fields, fieldView{
			Property: f.Property,
			Column:   f.Column,
			El:       f.El,
			Related:  f.Related,
		})
	}
	return view
}

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [entity...]",
		Short: "Resolve entities and show their table metadata",
		Long: `Resolve entity descriptors and show the cached table metadata.

Every record entity in the descriptor file is resolved unless names are given.
Names may be full (app.User) or simple (User) when unambiguous.`,
		Example: `  # Show every entity
  tablemeta inspect --entities entities.yaml

  # Show one entity as JSON
  tablemeta inspect User --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q, expected table or json", format)
			}

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			var entities []*schema.Entity
			if len(args) == 0 {
				// Framework bases are not record types of their own
				for _, e := range a.registry.All() {
					if !e.Framework {
						entities = append(entities, e)
					}
				}
			} else {
				for _, name := range args {
					e, err := a.lookup(name, cmd.ErrOrStderr())
					if err != nil {
						return err
					}
					entities = append(entities, e)
				}
			}

			tables := make([]*metadata.TableInfo, 0, len(entities))
			for _, e := range entities {
				info, err := a.resolve(e, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				tables = append(tables, info)
			}

			for _, info := range tables {
				if !info.HasKey() {
					fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(
						fmt.Sprintf("%s has no primary key, key based operations are unavailable", info.Entity),
						opts.noColor))
				}
			}

			if format == "json" {
				return renderJSON(cmd.OutOrStdout(), tables)
			}
			renderTables(cmd.OutOrStdout(), tables, a.hierarchy, opts.noColor)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: json or table")

	return cmd
}

func renderJSON(w io.Writer, tables []*metadata.TableInfo) error {
	views := make([]tableView, 0, len(tables))
	for _, info := range tables {
		views = append(views, newTableView(info))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func renderTables(w io.Writer, tables []*metadata.TableInfo, hierarchy *schema.Hierarchy, noColor bool) {
	for i, info := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		ui.Header(w, info.Entity, noColor)

		kv := ui.NewKeyValueTable(w, noColor)
		kv.AddRow("Table", info.TableName)
		if info.HasKey() {
			kv.AddRow("Key", fmt.Sprintf("%s -> %s (%s)", info.KeyProperty, info.KeyColumn, info.KeyType))
		} else {
			kv.AddRow("Key", "none")
		}
		if info.KeySequence != nil {
			kv.AddRow("Key sequence", info.KeySequence.Value)
		}
		if info.ResultMap != "" {
			kv.AddRow("Result map", info.ResultMap)
		}
		if info.Namespace != "" {
			kv.AddRow("Namespace", info.Namespace)
		}
		if subtypes := hierarchy.Subtypes(info.Entity); len(subtypes) > 0 {
			kv.AddRow("Subtypes", strings.Join(subtypes, ", "))
		}
		kv.Render()

		if len(info.FieldList) == 0 {
			continue
		}
		fmt.Fprintln(w)
		table := ui.NewTable(w, []string{"PROPERTY", "COLUMN", "EL", "RELATED"}, &ui.TableOptions{NoColor: noColor})
		for _, f := range info.FieldList {
			table.AddRow(f.Property, f.Column, f.El, strconv.FormatBool(f.Related))
		}
		table.Render()
	}

	if len(tables) > 1 {
		fmt.Fprintln(w)
		ui.WriteSuccess(w, fmt.Sprintf("Resolved %d entities: %s", len(tables), strings.Join(entityNames(tables), ", ")), noColor)
	}
}

func entityNames(tables []*metadata.TableInfo) []string {
	names := make([]string, len(tables))
	for i, info := range tables {
		names[i] = info.Entity
	}
	return names
}
