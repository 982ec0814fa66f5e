package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/transaction"
)

func ragLabel(r transaction.RAGStatus) string {
	switch r {
	case transaction.RAGRed:
		return color.RedString("RED")
	case transaction.RAGAmber:
		return color.YellowString("AMBER")
	case transaction.RAGGreen:
		return color.GreenString("GREEN")
	default:
		return string(r)
	}
}

type dealsView []*transaction.Transaction

func (v dealsView) TableHeaders() []string {
	return []string{"ID", "Name", "Stage", "RAG", "Confidence", "Capacity MW", "Owner"}
}

func (v dealsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, t := range v {
		rows = append(rows, []string{
			t.ID, t.Name, t.Stage.Label(), ragLabel(t.RAG),
			strconv.Itoa(t.Confidence) + "%", mw(t.CapacityMW), t.Owner,
		})
	}
	return rows
}

type nextStepsView []transaction.NextStep

func (v nextStepsView) TableHeaders() []string { return []string{"#", "Done", "Step"} }

func (v nextStepsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for i, s := range v {
		done := ""
		if s.Completed {
			done = color.GreenString("x")
		}
		rows = append(rows, []string{strconv.Itoa(i), done, s.Text})
	}
	return rows
}

type activitiesView []*transaction.Activity

func (v activitiesView) TableHeaders() []string {
	return []string{"When", "Type", "Title", "Author"}
}

func (v activitiesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, a := range v {
		rows = append(rows, []string{a.CreatedAt.Format("2006-01-02 15:04"), string(a.Type), a.Title, a.Author})
	}
	return rows
}

type stagesView []transaction.StageSummary

func (v stagesView) TableHeaders() []string { return []string{"Stage", "Deals", "Capacity MW"} }

func (v stagesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, s := range v {
		rows = append(rows, []string{s.Label, strconv.Itoa(s.Count), mw(s.CapacityMW)})
	}
	return rows
}

func newDealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deals",
		Aliases: []string{"transactions"},
		Short:   "Manage the transaction pipeline",
	}

	var stage, rag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := transaction.ListFilter{Stage: transaction.Stage(stage), RAG: transaction.RAGStatus(rag)}
			if filter.Stage != "" && !filter.Stage.IsValid() {
				return errors.Errorf(errors.ErrCodeStageInvalid, "unknown stage %q", stage)
			}
			if filter.RAG != "" && !filter.RAG.IsValid() {
				return errors.Errorf(errors.ErrCodeRAGInvalid, "unknown RAG status %q", rag)
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			txs, err := cliCtx.Client.Deals().List(ctx, filter)
			if err != nil {
				return err
			}
			return PrintResult(cmd, dealsView(txs), txs)
		},
	}
	list.Flags().StringVar(&stage, "stage", "", "pipeline stage")
	list.Flags().StringVar(&rag, "rag", "", "RAG status: green, amber, red or closed")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transaction with its next steps and activity feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			tx, err := cliCtx.Client.Deals().Get(ctx, args[0])
			if err != nil {
				return err
			}
			acts, err := cliCtx.Client.Deals().Activities(ctx, args[0])
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"transaction": tx, "activities": acts})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  [%s]  %s  %d%%\n", tx.Name, tx.Stage.Label(), ragLabel(tx.RAG), tx.Confidence)
			if len(tx.NextSteps) > 0 {
				renderTable(out, nextStepsView(tx.NextSteps).TableHeaders(), nextStepsView(tx.NextSteps).TableRows())
			}
			renderTable(out, activitiesView(acts).TableHeaders(), activitiesView(acts).TableRows())
			return nil
		},
	}

	stageCmd := &cobra.Command{
		Use:   "stage <id> <stage>",
		Short: "Move a transaction to another stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := transaction.Stage(args[1])
			if !next.IsValid() {
				return errors.Errorf(errors.ErrCodeStageInvalid, "unknown stage %q", args[1])
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			tx, err := cliCtx.Client.Deals().ChangeStage(ctx, args[0], next)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), tx)
			}
			PrintSuccess(cmd, fmt.Sprintf("%s moved to %s", tx.Name, tx.Stage.Label()))
			return nil
		},
	}

	var in transaction.ActivityInput
	var actType string
	activity := &cobra.Command{
		Use:   "activity <id>",
		Short: "Log an activity against a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = transaction.ActivityType(actType)
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			act, err := cliCtx.Client.Deals().LogActivity(ctx, args[0], in)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), act)
			}
			PrintSuccess(cmd, fmt.Sprintf("%s logged by %s", act.Type, act.Author))
			return nil
		},
	}
	activity.Flags().StringVar(&actType, "type", string(transaction.ActivityNote), "note, email, meeting, call or task")
	activity.Flags().StringVar(&in.Title, "title", "", "activity title")
	activity.Flags().StringVar(&in.Description, "description", "", "longer description")
	_ = activity.MarkFlagRequired("title")

	toggle := &cobra.Command{
		Use:   "toggle <id> <index>",
		Short: "Flip the completion flag of one next step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Errorf(errors.ErrCodeNextStepOutOfRange, "next step index %q is not a number", args[1])
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			tx, err := cliCtx.Client.Deals().ToggleNextStep(ctx, args[0], index)
			if err != nil {
				return err
			}
			return PrintResult(cmd, nextStepsView(tx.NextSteps), tx)
		},
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Deal count and capacity per stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			rows, err := cliCtx.Client.Deals().Summary(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, stagesView(rows), rows)
		},
	}

	cmd.AddCommand(list, show, stageCmd, activity, toggle, summary)
	return cmd
}

//Personal.AI order the ending
