package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	appproject "github.com/turtacn/CoalTransition-Atlas/internal/application/project"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/project"
)

type projectsView []*project.Record

func (v projectsView) TableHeaders() []string {
	return []string{"ID", "Plant", "Country", "Capacity MW", "Status", "Retirement"}
}

func (v projectsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		rows = append(rows, []string{r.ID, r.PlantName, r.Country, mw(r.CapacityMW), r.Status, optYear(r.PlannedRetirementYear)})
	}
	return rows
}

func optYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

type recordView struct{ r *project.Record }

func (v recordView) TableHeaders() []string { return []string{"Field", "Value"} }

func (v recordView) TableRows() [][]string {
	rows := [][]string{
		{"ID", v.r.ID},
		{"Plant", v.r.PlantName},
		{"Unit", v.r.UnitName},
		{"Country", v.r.Country},
		{"Capacity MW", mw(v.r.CapacityMW)},
	}
	for _, f := range domain.EditableFields {
		rows = append(rows, []string{f.Label, v.r.Value(f.Column)})
	}
	return rows
}

type changeLogView []*project.ChangeLogEntry

func (v changeLogView) TableHeaders() []string {
	return []string{"When", "Plant", "Field", "Old", "New", "Note", "Author"}
}

func (v changeLogView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, e := range v {
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.PlantName, e.FieldLabel, e.OldValue, e.NewValue, e.Note, e.Author,
		})
	}
	return rows
}

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Browse and edit transition projects",
	}

	var in project.ListInput
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			page, err := cliCtx.Client.Projects().List(ctx, in)
			if err != nil {
				return err
			}
			if err := PrintResult(cmd, projectsView(page.Projects), page); err != nil {
				return err
			}
			if cliCtx.OutputFormat != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d projects\n", page.Pagination.Page, len(page.Projects), page.Pagination.Total)
			}
			return nil
		},
	}
	list.Flags().StringVar(&in.Country, "country", "", "country")
	list.Flags().StringVar(&in.Status, "status", "", "status")
	list.Flags().StringVar(&in.Search, "search", "", "text in plant or unit name")
	list.Flags().IntVar(&in.Page, "page", 1, "page number")
	list.Flags().IntVar(&in.PageSize, "page-size", appproject.DefaultPageSize, "page size")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			rec, err := cliCtx.Client.Projects().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, recordView{rec}, rec)
		},
	}

	var setNote string
	set := &cobra.Command{
		Use:   "set <id> <column> <value>",
		Short: "Edit one field; the change is logged with your identity",
		Long:  "Edit one field. Editable columns: " + strings.Join(editableColumns(), ", ") + ".",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			res, err := cliCtx.Client.Projects().SetField(ctx, args[0], args[1], args[2], setNote)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if !res.Changed {
				PrintSuccess(cmd, "value unchanged")
				return nil
			}
			PrintSuccess(cmd, fmt.Sprintf("%s: %q -> %q", res.Entry.FieldLabel, res.Entry.OldValue, res.Entry.NewValue))
			return nil
		},
	}
	set.Flags().StringVar(&setNote, "note", "", "note stored with the change")

	note := &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Add a note to the project's change log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			entry, err := cliCtx.Client.Projects().AddNote(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), entry)
			}
			PrintSuccess(cmd, "note added by "+entry.Author)
			return nil
		},
	}

	var recent int
	logCmd := &cobra.Command{
		Use:   "log [id]",
		Short: "Show a project's change log, or the latest changes across projects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			var entries []*project.ChangeLogEntry
			if len(args) == 1 {
				entries, err = cliCtx.Client.Projects().ChangeLog(ctx, args[0])
			} else {
				entries, err = cliCtx.Client.Projects().Recent(ctx, recent)
			}
			if err != nil {
				return err
			}
			return PrintResult(cmd, changeLogView(entries), entries)
		},
	}
	logCmd.Flags().IntVar(&recent, "limit", appproject.DefaultRecentLimit, "number of entries without an id")

	cmd.AddCommand(list, show, set, note, logCmd)
	return cmd
}

func editableColumns() []string {
	out := make([]string, 0, len(domain.EditableFields))
	for _, f := range domain.EditableFields {
		out = append(out, f.Column)
	}
	return out
}

//Personal.AI order the ending
