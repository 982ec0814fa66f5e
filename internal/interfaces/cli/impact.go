package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/impact"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/plant"
)

type projectionView struct{ p *impact.Projection }

func (v projectionView) TableHeaders() []string {
	return []string{"Year", "Annual", "Cumulative", "Segment"}
}

func (v projectionView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.p.Points))
	for _, pt := range v.p.Points {
		rows = append(rows, []string{strconv.Itoa(pt.Year), num(pt.Annual), num(pt.Cumulative), string(pt.Segment)})
	}
	return rows
}

type resultsView []impact.Result

func (v resultsView) TableHeaders() []string {
	return []string{"Plant", "Year", "CO2", "Deaths", "Investment", "Permanent jobs"}
}

func (v resultsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		rows = append(rows, []string{
			r.PlantName, optYear(r.Year),
			num(r.Value(impact.MetricCO2)),
			num(r.Value(impact.MetricDeaths)),
			num(r.Value(impact.MetricInvestment)),
			num(r.Value(impact.MetricPermanentJobs)),
		})
	}
	return rows
}

func newImpactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Impact results, projections and exports",
	}

	var (
		req    impact.ProjectionRequest
		metric string
		base   float64
	)
	project := &cobra.Command{
		Use:   "project",
		Short: "Project one plant metric over time with optional degradation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := impact.ParseMetric(metric)
			if !ok {
				return errors.Errorf(errors.ErrCodeMetricUnsupported, "unsupported metric %q", metric)
			}
			req.Metric = m
			if cmd.Flags().Changed("base") {
				req.BaseAnnualValue = &base
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			p, err := cliCtx.Client.Impact().Project(ctx, req)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s), base %s\n", p.PlantName, p.Metric, p.Kind, num(p.Base))
			}
			return PrintResult(cmd, projectionView{p}, p)
		},
	}
	pf := project.Flags()
	pf.StringVar(&req.PlantName, "plant", "", "plant name")
	pf.StringVar(&metric, "metric", string(impact.MetricCO2), "metric to project")
	pf.Float64Var(&base, "base", 0, "base annual value (default: the plant's annual result)")
	pf.IntVar(&req.StartYear, "start", 0, "first projected year")
	pf.IntVar(&req.EndYear, "end", 0, "last projected year")
	pf.Float64Var(&req.EfficiencyRatePercent, "efficiency-rate", 0, "annual efficiency degradation in percent")
	pf.Float64Var(&req.CapacityRatePercent, "capacity-rate", 0, "annual capacity degradation in percent")
	pf.BoolVar(&req.Enabled, "degradation", false, "apply degradation")
	pf.IntVar(&req.RetirementYear, "retirement", 0, "retirement year; later years project zero")

	totals := &cobra.Command{
		Use:   "totals",
		Short: "Lifetime results per plant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			rows, err := cliCtx.Client.Impact().Totals(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, resultsView(rows), rows)
		},
	}

	var annualPlant string
	annual := &cobra.Command{
		Use:   "annual",
		Short: "Per-year results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			rows, err := cliCtx.Client.Impact().Annual(ctx, annualPlant)
			if err != nil {
				return err
			}
			return PrintResult(cmd, resultsView(rows), rows)
		},
	}
	annual.Flags().StringVar(&annualPlant, "plant", "", "plant name")

	export := &cobra.Command{
		Use:   "export",
		Short: "Print a download link for the latest statistics snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			link, err := cliCtx.Client.Impact().LatestExport(ctx)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), link)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n(expires %s, snapshot %s)\n", link.URL, link.ExpiresAt.Format("2006-01-02 15:04"), link.Snapshot.Key)
			return nil
		},
	}

	cmd.AddCommand(project, totals, annual, export)
	return cmd
}

type layoutView struct{ l *plant.LayoutResult }

func (v layoutView) TableHeaders() []string { return []string{"#", "X", "Y"} }

func (v layoutView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.l.Points))
	for i, p := range v.l.Points {
		rows = append(rows, []string{strconv.Itoa(i), num(p.X), num(p.Y)})
	}
	return rows
}

func newLayoutCmd() *cobra.Command {
	var (
		parent plant.ScreenPoint
		count  int
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the child marker ring around a parent screen point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			res, err := cliCtx.Client.Impact().Layout(ctx, parent, count)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "radius %s\n", num(res.Radius))
			}
			return PrintResult(cmd, layoutView{res}, res)
		},
	}
	cmd.Flags().Float64Var(&parent.X, "x", 0, "parent x in pixels")
	cmd.Flags().Float64Var(&parent.Y, "y", 0, "parent y in pixels")
	cmd.Flags().IntVar(&count, "count", 1, "number of children")
	return cmd
}

//Personal.AI order the ending
