package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/matterdrop/internal/config"
	"github.com/san-kum/matterdrop/internal/cssx"
	"github.com/san-kum/matterdrop/internal/decompose"
	"github.com/san-kum/matterdrop/internal/engine"
	"github.com/san-kum/matterdrop/internal/metrics"
	"github.com/san-kum/matterdrop/internal/page"
	"github.com/san-kum/matterdrop/internal/render"
	"github.com/san-kum/matterdrop/internal/sim"
	"github.com/san-kum/matterdrop/internal/storage"
	"github.com/san-kum/matterdrop/internal/viz"
)

var (
	dataDir    string
	debug      bool
	configFile string
	preset     string
	duration   float64
	deltaMs    float64
	seed       int64
	jitter     float64
	numRuns    int
	frameEvery int
	// Live view
	frameRate int
	theme     string
	// Snapshot
	snapAt    float64
	snapOut   string
	snapScale float64
	// Output
	asJSON  bool
	element string

	logFile *os.File
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "matterdrop",
		Short: "physics playground for page elements",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".matterdrop", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log under <data>/logs")

	decomposeCmd := &cobra.Command{
		Use:   "decompose <transform | 16 numbers>",
		Short: "decompose a CSS transform or column-major matrix",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDecompose,
	}
	decomposeCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headlessly and store the frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().Float64Var(&deltaMs, "dt", config.DefaultDeltaMs, "engine step in ms")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for pointer jitter")
	runCmd.Flags().Float64Var(&jitter, "jitter", 0, "pointer jitter in px")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of seeded runs (ensemble)")
	runCmd.Flags().IntVar(&frameEvery, "every", 1, "record one frame every n steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot element positions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&element, "element", "", "plot only this element")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal, driven by the mouse",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "render the world at a point in time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&snapAt, "at", 3, "simulated seconds before the snapshot")
	snapshotCmd.Flags().StringVar(&snapOut, "out", "", "output file (.webp, .png or .svg)")
	snapshotCmd.Flags().Float64Var(&snapScale, "scale", 1, "output pixels per page pixel")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes and their presets",
		RunE:  listScenes,
	}

	rootCmd.AddCommand(decomposeCmd, runCmd, listCmd, plotCmd, exportJSONCmd, liveCmd, snapshotCmd, scenesCmd)
	addBatchCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig layers defaults, preset, config file, the scene argument and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scene, cfg.Page = args[0], nil
		}
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dt") {
		cfg.Engine.DeltaMs = deltaMs
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("jitter") {
		cfg.PointerJitter = jitter
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("config: scene=%s duration=%gs dt=%gms seed=%d", cfg.SceneName(), cfg.Duration, cfg.Engine.DeltaMs, cfg.Seed)
	return cfg, nil
}

func runDecompose(cmd *cobra.Command, args []string) error {
	m, err := parseMatrixArgs(args)
	if err != nil {
		return err
	}
	d := decompose.Decompose(m)

	if asJSON {
		return writeDecompositionJSON(os.Stdout, d)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tX\tY\tZ")
	fmt.Fprintf(w, "translate\t%g\t%g\t%g\n", d.TranslateX, d.TranslateY, d.TranslateZ)
	fmt.Fprintf(w, "rotate (deg)\t%g\t%g\t%g\n", d.RotateX, d.RotateY, d.RotateZ)
	fmt.Fprintf(w, "scale\t%g\t%g\t%g\n", d.ScaleX, d.ScaleY, d.ScaleZ)
	fmt.Fprintln(w, "\tXY\tXZ\tYZ")
	fmt.Fprintf(w, "skew (deg)\t%g\t%g\t%g\n", d.SkewXY, d.SkewXZ, d.SkewYZ)
	return w.Flush()
}

// writeDecompositionJSON writes d keyed by its json field names. NaN and
// Inf, which a singular matrix produces, are written as strings since JSON
// has no literal for them.
func writeDecompositionJSON(w io.Writer, d decompose.Decomposition) error {
	out := make(map[string]any)
	v := reflect.ValueOf(d)
	for i := 0; i < v.NumField(); i++ {
		name := v.Type().Field(i).Tag.Get("json")
		f := v.Field(i).Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			out[name] = strconv.FormatFloat(f, 'g', -1, 64)
			continue
		}
		out[name] = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseMatrixArgs accepts 16 column-major numbers or a CSS transform,
// possibly split across arguments by the shell.
func parseMatrixArgs(args []string) (decompose.Matrix4, error) {
	if len(args) == 16 {
		var m decompose.Matrix4
		numeric := true
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				numeric = false
				break
			}
			m[i/4][i%4] = v
		}
		if numeric {
			return m, nil
		}
	}
	m, err := cssx.Parse(strings.Join(args, " "))
	if err != nil {
		return m, fmt.Errorf("decompose: %w", err)
	}
	return m, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	scene, err := cfg.ResolveScene()
	if err != nil {
		return err
	}

	simCfg := cfg.Sim()
	simCfg.FrameEvery = frameEvery

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := sim.New(scene, cfg.Options)
	if numRuns > 1 {
		return runEnsemble(ctx, s, simCfg)
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	fmt.Printf("running %s scene...\n", cfg.SceneName())
	start := time.Now()

	result, err := s.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Printf("run: %v", e)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.SceneName(), simCfg, cfg.Options, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, frames: %d\n", result.StepsTaken, len(result.Frames))
	if len(result.Errors) > 0 {
		fmt.Printf("errors: %d (first: %v)\n", len(result.Errors), result.Errors[0])
	}
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Default() {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

func runEnsemble(ctx context.Context, s *sim.Simulator, cfg sim.Config) error {
	fmt.Printf("running %d seeded runs...\n", numRuns)
	start := time.Now()

	results, err := sim.NewEnsemble(s, numRuns, cfg.Seed, metrics.Default).Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := make([]string, 0)
	for _, m := range metrics.Default() {
		names = append(names, m.Name())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := []string{strconv.FormatInt(cfg.Seed+int64(i), 10)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4f", r.Metrics[n]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tFRAMES\tBOUNCES\tSETTLE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.2fms\t%d\t%.0f\t%.2fs\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.DeltaMs,
			run.Frames,
			run.Metrics["bounces"],
			run.Metrics["settle_time"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	ids := meta.Elements
	if element != "" {
		ids = []string{element}
	}
	const maxPlots = 6
	if len(ids) > maxPlots {
		ids = ids[:maxPlots]
	}

	for _, id := range ids {
		// negate so the plot reads as height above the page top
		data := storage.Series(frames, id, func(b sim.BodyState) float64 { return -b.Y })
		if len(data) < 2 {
			fmt.Printf("%s: not enough samples\n\n", id)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: -y (px) vs frame", id)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	scene, err := cfg.ResolveScene()
	if err != nil {
		return err
	}
	sess, err := sim.NewSession(scene, cfg.Options, cfg.Sim())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	log.Printf("live: %s at %d fps", cfg.SceneName(), cfg.FPS)
	m := viz.NewModel(sess, cfg.SceneName(), cfg.FPS).WithTheme(theme).WithSnapshotDir(dataDir)
	return viz.Run(m)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	scene, err := cfg.ResolveScene()
	if err != nil {
		return err
	}
	sess, err := sim.NewSession(scene, cfg.Options, cfg.Sim())
	if err != nil {
		return err
	}

	for sess.Time() < snapAt {
		if err := sess.Step(); err != nil {
			return fmt.Errorf("step %d: %w", sess.Steps(), err)
		}
	}
	for _, e := range sess.TakeErrors() {
		log.Printf("snapshot: %v", e)
	}

	out := snapOut
	if out == "" {
		out = fmt.Sprintf("%s_%.1fs.webp", cfg.SceneName(), snapAt)
	}
	opts := render.DefaultOptions()
	opts.Scale = snapScale
	size := engine.Vector{X: sess.Page.ClientWidth(), Y: sess.Page.PageHeight()}
	if err := render.Save(out, sess.Engine.World, size, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.2fs, %d bodies)\n", out, sess.Time(), sess.Engine.World.Len())
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tSIZE\tELEMENTS\tPOINTER\tPRESETS")
	for _, name := range page.BuiltinNames() {
		s, err := page.Builtin(name)
		if err != nil {
			return err
		}
		pointer := "-"
		if len(s.Pointer) > 0 {
			pointer = fmt.Sprintf("%d waypoints", len(s.Pointer))
		}
		fmt.Fprintf(w, "%s\t%gx%g\t%d\t%s\t%s\n",
			name, s.Width, s.Height, len(s.Elements), pointer,
			strings.Join(config.ListPresets(name), ", "))
	}
	return w.Flush()
}
