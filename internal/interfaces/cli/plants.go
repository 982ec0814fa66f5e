package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/pkg/client"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/impact"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/plant"
)

// filterFlags binds the catalogue filter to a command's flags.
type filterFlags struct {
	capacityMin float64
	capacityMax float64
	maxLifetime float64
	countries   []string
	tech        []string
	coalTypes   []string
	subregions  []string
	captive     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.capacityMin, "capacity-min", 0, "minimum plant capacity in MW")
	fl.Float64Var(&f.capacityMax, "capacity-max", 0, "maximum plant capacity in MW")
	fl.Float64Var(&f.maxLifetime, "max-lifetime", 0, "maximum remaining lifetime in years")
	fl.StringSliceVar(&f.countries, "country", nil, "country (repeatable)")
	fl.StringSliceVar(&f.tech, "tech", nil, "combustion technology (repeatable)")
	fl.StringSliceVar(&f.coalTypes, "coal-type", nil, "coal type (repeatable)")
	fl.StringSliceVar(&f.subregions, "subregion", nil, "subregion (repeatable)")
	fl.StringVar(&f.captive, "captive", "", "captive plants: all, yes or no")
}

// options converts the flags; zero-valued numeric flags are treated as unset.
func (f *filterFlags) options(cmd *cobra.Command) (plant.FilterOptions, error) {
	opts := plant.FilterOptions{
		Countries:      f.countries,
		CombustionTech: f.tech,
		CoalTypes:      f.coalTypes,
		Subregions:     f.subregions,
	}
	if cmd.Flags().Changed("capacity-min") {
		opts.CapacityMin = &f.capacityMin
	}
	if cmd.Flags().Changed("capacity-max") {
		opts.CapacityMax = &f.capacityMax
	}
	if cmd.Flags().Changed("max-lifetime") {
		opts.MaxRemainingLifetime = &f.maxLifetime
	}
	captive, err := plant.ParseCaptiveMode(f.captive)
	if err != nil {
		return opts, err
	}
	opts.Captive = captive
	return opts, opts.Validate()
}

func mw(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }

func num(v float64) string {
	if v >= 100 || v <= -100 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ─────────────────────────────────────────────────────────────────────────────
// plants
// ─────────────────────────────────────────────────────────────────────────────

type plantsView struct{ res *plant.PlantsResult }

func (v plantsView) TableHeaders() []string {
	return []string{"Key", "Plant", "Country", "Capacity MW", "Status", "Units"}
}

func (v plantsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.res.Plants))
	for _, p := range v.res.Plants {
		rows = append(rows, []string{p.Key, p.Name, p.Country, mw(p.CapacityMW), p.DisplayStatus(), strconv.Itoa(len(p.UnitDetails))})
	}
	return rows
}

type plantView struct{ p *plant.Plant }

func (v plantView) TableHeaders() []string { return []string{"Unit", "Capacity MW"} }

func (v plantView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.p.UnitDetails))
	for _, u := range v.p.UnitDetails {
		rows = append(rows, []string{u.UnitName, mw(u.CapacityMW)})
	}
	return rows
}

func newPlantsCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "plants [key]",
		Short: "List grouped plants, or show one plant by key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if len(args) == 1 {
				p, err := cliCtx.Client.Plants().Get(ctx, args[0])
				if err != nil {
					return err
				}
				if cliCtx.OutputFormat != "json" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s MW, %s\n", p.Name, p.Country, mw(p.CapacityMW), p.DisplayStatus())
				}
				return PrintResult(cmd, plantView{p}, p)
			}

			opts, err := filter.options(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Client.Plants().List(ctx, opts)
			if err != nil {
				return err
			}
			if err := PrintResult(cmd, plantsView{res}, res); err != nil {
				return err
			}
			if cliCtx.OutputFormat != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "%d plants, %d units, %d excluded\n", len(res.Plants), res.UnitCount, res.Excluded)
			}
			return nil
		},
	}
	filter.register(cmd)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// search
// ─────────────────────────────────────────────────────────────────────────────

type unitsView []plant.PlantUnit

func (v unitsView) TableHeaders() []string {
	return []string{"Plant", "Unit", "Country", "Owner", "Capacity MW"}
}

func (v unitsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, u := range v {
		rows = append(rows, []string{u.PlantName, u.UnitName, u.Country, u.Owner, mw(u.CapacityMW)})
	}
	return rows
}

func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Free-text search over plant, owner and country names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			units, err := cliCtx.Client.Plants().Search(ctx, args[0], limit)
			if err != nil {
				return err
			}
			if len(units) == 0 && cliCtx.OutputFormat != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "No plants match %q.\n", args[0])
				return nil
			}
			return PrintResult(cmd, unitsView(units), units)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", explorer.DefaultSearchLimit, "maximum number of results")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// stats
// ─────────────────────────────────────────────────────────────────────────────

type totalsView plant.MetricTotals

func (v totalsView) TableHeaders() []string { return []string{"Metric", "Total"} }

func (v totalsView) TableRows() [][]string {
	rows := make([][]string, 0, len(impact.AllMetrics))
	for _, m := range impact.AllMetrics {
		rows = append(rows, []string{string(m), num(v[m])})
	}
	return rows
}

type countriesView []plant.CountryStats

func (v countriesView) TableHeaders() []string {
	return []string{"Country", "Plants", "CO2", "Deaths", "Investment"}
}

func (v countriesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, c := range v {
		rows = append(rows, []string{
			c.Country,
			strconv.Itoa(c.PlantCount),
			num(c.Totals[impact.MetricCO2]),
			num(c.Totals[impact.MetricDeaths]),
			num(c.Totals[impact.MetricInvestment]),
		})
	}
	return rows
}

type rankingView []plant.PlantRanking

func (v rankingView) TableHeaders() []string { return []string{"Rank", "Plant", "Country", "Value"} }

func (v rankingView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		rows = append(rows, []string{strconv.Itoa(r.Rank), r.PlantName, r.Country, num(r.Value)})
	}
	return rows
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate statistics over the catalogue",
	}

	var filter filterFlags
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Totals over the plants matching the filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			opts, err := filter.options(cmd)
			if err != nil {
				return err
			}
			s, err := cliCtx.Client.Plants().Summary(ctx, opts)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat != "json" {
				fmt.Fprintf(cmd.OutOrStdout(), "%d plants, %d units, %s MW\n", s.PlantCount, s.UnitCount, mw(s.CapacityMW))
			}
			return PrintResult(cmd, totalsView(s.Totals), s)
		},
	}
	filter.register(summary)

	countries := &cobra.Command{
		Use:   "countries",
		Short: "Per-country totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			rows, err := cliCtx.Client.Plants().Countries(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, countriesView(rows), rows)
		},
	}

	var (
		metric string
		limit  int
		asc    bool
	)
	top := &cobra.Command{
		Use:   "top",
		Short: "Rank plants by one impact metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := impact.ParseMetric(metric)
			if !ok {
				return errors.Errorf(errors.ErrCodeMetricUnsupported, "unsupported metric %q", metric)
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			rows, err := cliCtx.Client.Plants().Top(ctx, client.TopRequest{Metric: m, Ascending: asc, Limit: limit})
			if err != nil {
				return err
			}
			return PrintResult(cmd, rankingView(rows), rows)
		},
	}
	top.Flags().StringVar(&metric, "metric", string(impact.MetricCO2), "metric to rank by")
	top.Flags().IntVar(&limit, "limit", 0, "number of plants (server default when 0)")
	top.Flags().BoolVar(&asc, "asc", false, "rank ascending")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Reload the catalogue on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			res, err := cliCtx.Client.Plants().Refresh(ctx)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			msg := "catalogue reloaded"
			if !res.Announced {
				msg += " (workers not notified)"
			}
			PrintSuccess(cmd, msg)
			return nil
		},
	}

	cmd.AddCommand(summary, countries, top, refresh)
	return cmd
}

//Personal.AI order the ending
