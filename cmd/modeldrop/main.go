package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/boscoh/modeldrop/internal/config"
	"github.com/boscoh/modeldrop/internal/models"
	"github.com/boscoh/modeldrop/internal/storage"
	"github.com/boscoh/modeldrop/internal/tui"
)

var (
	dataDir    string
	runTime    float64
	runDt      float64
	method     string
	configFile string
	preset     string
	paramSets  []string
	noSave     bool
	xMin       float64
	xMax       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "modeldrop",
		Short: "dynamical population, epidemic and economic models",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive explorer when no command given
			return tui.Run()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".modeldrop", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a model and save the solution",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	runCmd.Flags().Float64Var(&runTime, "time", 0, "simulation length (model default if 0)")
	runCmd.Flags().Float64Var(&runDt, "dt", 0, "timestep (model default if 0)")
	runCmd.Flags().StringVar(&method, "method", "", "integration method: rk45 or euler")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringArrayVar(&paramSets, "set", nil, "override parameter, key=value (repeatable)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving the run")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		RunE:  listModels,
	}

	paramsCmd := &cobra.Command{
		Use:   "params [model]",
		Short: "show a model's editable parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  showParams,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	curveCmd := &cobra.Command{
		Use:   "curve [model] [fn]",
		Short: "chart one of a model's registered functions",
		Args:  cobra.ExactArgs(2),
		RunE:  plotCurve,
	}
	curveCmd.Flags().Float64Var(&xMin, "xmin", 0, "curve range start")
	curveCmd.Flags().Float64Var(&xMax, "xmax", 1, "curve range end")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run's solution CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [out.json]",
		Short: "export a saved run to a JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			return st.ExportJSON(args[0], args[1])
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive model explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run()
		},
	}

	rootCmd.AddCommand(runCmd, modelsCmd, paramsCmd, listCmd, plotCmd, curveCmd, presetsCmd, exportCSVCmd, exportJSONCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runModel(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := models.Lookup(name)
	if err != nil {
		return err
	}

	if preset != "" {
		cfg := config.GetPreset(name, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		if err := cfg.Apply(m); err != nil {
			return err
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Model != "" && cfg.Model != name {
			return fmt.Errorf("config is for model %q, not %q", cfg.Model, name)
		}
		if err := cfg.Apply(m); err != nil {
			return err
		}
	}

	// CLI flags override preset and config values
	flags := config.Config{Method: method, Time: runTime, Dt: runDt}
	if err := flags.Apply(m); err != nil {
		return err
	}
	for _, kv := range paramSets {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("bad --set %q, want key=value", kv)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("bad --set %q: %w", kv, err)
		}
		if err := m.SetParam(key, v); err != nil {
			return err
		}
	}

	fmt.Printf("running %s...\n", name)
	start := time.Now()
	if err := m.Run(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("points: %d\n", m.Solution().Len())
	if m.Truncated() {
		fmt.Println("warning: solution diverged, run truncated")
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(m)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETHOD\tTIME\tDT\tPLOTS")
	for _, m := range models.All() {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%d\n",
			m.Name,
			m.Method,
			m.Params.Get("time"),
			m.Params.Get("dt"),
			len(m.Plots),
		)
	}
	return w.Flush()
}

func showParams(cmd *cobra.Command, args []string) error {
	m, err := models.Lookup(args[0])
	if err != nil {
		return err
	}

	descs, err := m.DescribeParams()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tMIN\tMAX\tSCALE")
	for _, d := range descs {
		scale := "linear"
		if d.IsLog {
			scale = "log"
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%s\n", d.Key, d.Value, d.Min, d.Max, scale)
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
	fmt.Fprintln(w, "ID\tMODEL\tTIMESTAMP\tMETHOD\tTIME\tDT\tTRUNCATED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%v\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Time,
			run.Dt,
			run.Truncated,
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

	_, series, err := st.LoadSolution(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	const maxPlots = 6
	if len(names) > maxPlots {
		names = names[:maxPlots]
	}

	for _, name := range names {
		data := finitePrefix(series[name])
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	m, err := models.Lookup(args[0])
	if err != nil {
		return err
	}
	fnName := args[1]

	lo, hi := xMin, xMax
	for _, p := range m.Plots {
		if p.Fn == fnName && !cmd.Flags().Changed("xmin") && !cmd.Flags().Changed("xmax") {
			lo, hi = p.XLims[0], p.XLims[1]
		}
	}

	points, err := m.FnCurve(fnName, lo, hi, 80)
	if err != nil {
		return err
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Y
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s over [%g, %g]", fnName, lo, hi)),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, series, err := st.LoadSolution(args[0])
	if err != nil {
		return err
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("time," + strings.Join(names, ","))
	for i, t := range times {
		row := make([]string, 0, len(names)+1)
		row = append(row, strconv.FormatFloat(t, 'f', 6, 64))
		for _, name := range names {
			v := series[name][i]
			if math.IsNaN(v) {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		fmt.Println(strings.Join(row, ","))
	}
	return nil
}

// finitePrefix cuts a series at its first NaN so truncated runs chart
// cleanly.
func finitePrefix(series []float64) []float64 {
	for i, v := range series {
		if math.IsNaN(v) {
			return series[:i]
		}
	}
	return series
}
