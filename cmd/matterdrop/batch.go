package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/matterdrop/internal/automation"
	"github.com/san-kum/matterdrop/internal/config"
	"github.com/san-kum/matterdrop/internal/metrics"
	"github.com/san-kum/matterdrop/internal/optim"
	"github.com/san-kum/matterdrop/internal/storage"
)

var (
	sweepRange string
	gridParams []string
	metricName string
	maximize   bool
)

func addBatchCommands(root *cobra.Command) {
	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across evenly spaced values of one parameter",
		Long:  "Parameters: " + strings.Join(config.ParamNames(), ", "),
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	sweepCmd.Flags().StringVar(&sweepRange, "range", "", "name=min:max:steps")
	sweepCmd.MarkFlagRequired("range")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [scene]",
		Short: "grid search parameters for the best metric",
		Long:  "Parameters: " + strings.Join(config.ParamNames(), ", "),
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addSceneFlags(optimizeCmd)
	optimizeCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	optimizeCmd.Flags().StringArrayVar(&gridParams, "param", nil, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "settle_time", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")
	optimizeCmd.MarkFlagRequired("param")

	batchCmd := &cobra.Command{
		Use:   "batch <scenario.yaml>",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	root.AddCommand(sweepCmd, optimizeCmd, batchCmd)
}

// parseRange reads name=min:max:steps.
func parseRange(s string) (*automation.ParameterSweep, error) {
	name, spec, ok := strings.Cut(s, "=")
	parts := strings.Split(spec, ":")
	if !ok || name == "" || len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want name=min:max:steps", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	return &automation.ParameterSweep{ParamName: name, ParamMin: lo, ParamMax: hi, NumSteps: n}, nil
}

// parseGrid reads name=v1,v2,... specs into parallel name and value slices.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, s := range specs {
		name, list, ok := strings.Cut(s, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("param %q: want name=v1,v2,...", s)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("param %q: %w", s, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func metricNames() []string {
	var names []string
	for _, m := range metrics.Default() {
		names = append(names, m.Name())
	}
	return names
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sweep, err := parseRange(sweepRange)
	if err != nil {
		return err
	}
	sweep.Base = cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %d values...\n\n", sweep.ParamName, sweep.NumSteps)
	results, err := automation.RunSweep(ctx, sweep)
	if err != nil {
		return err
	}

	names := metricNames()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweep.ParamName)+"\t"+strings.ToUpper(strings.Join(names, "\t"))+"\tERRORS")
	for _, r := range results {
		row := []string{strconv.FormatFloat(r.ParamValue, 'g', 6, 64)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4f", r.Metrics[n]))
		}
		row = append(row, strconv.Itoa(r.Errors))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	known := false
	for _, n := range metricNames() {
		known = known || n == metricName
	}
	if !known {
		return fmt.Errorf("unknown metric: %s (available: %v)", metricName, metricNames())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize
	res, err := g.Search(ctx, cfg, metricName)
	if res != nil {
		log.Printf("optimize: evaluated %d points", len(res.Points))
	}
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(res.Best))
	for k := range res.Best {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("best %s: %.6f\n", metricName, res.Value)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, res.Best[k])
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n\n", scenario.Name, len(scenario.Steps))
	results, runErr := automation.RunScenario(ctx, scenario, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tRUN\tBOUNCES\tSETTLE\tERRORS")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.2fs\t%d\n",
			r.Step, r.Scene, runID,
			r.Result.Metrics["bounces"],
			r.Result.Metrics["settle_time"],
			len(r.Result.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
