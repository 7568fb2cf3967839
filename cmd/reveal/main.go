package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/reveal/internal/config"
	"github.com/san-kum/reveal/internal/overlay"
	"github.com/san-kum/reveal/internal/scenario"
	"github.com/san-kum/reveal/internal/storage"
	"github.com/san-kum/reveal/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	logFile    string
	theme      string
	seed       int64
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "reveal",
		Short:        "staged reveal overlay",
		SilenceUsage: true,
		RunE:         play,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".reveal", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "particle seed (0 keeps the configured seed)")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play the overlay in the terminal",
		RunE:  play,
	}
	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().StringVar(&logFile, "log", "", "write logs to this file")
		c.Flags().StringVar(&theme, "theme", "summit", fmt.Sprintf("color theme %v", tui.ThemeNames()))
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted scenario headless and store its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot slider position and stage over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	rootCmd.AddCommand(playCmd, runCmd, listCmd, plotCmd, exportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Resolve(configFile, preset, seed)
}

func play(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if logFile != "" {
		f, err := tea.LogToFile(logFile, "reveal")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	return tui.Run(tui.Options{Config: cfg, Theme: theme})
}

func runScenario(cmd *cobra.Command, args []string) error {
	scn := scenario.Demo()
	if len(args) == 1 {
		s, err := scenario.LoadScenario(args[0])
		if err != nil {
			return err
		}
		scn = s
	}

	usedPreset := preset
	if usedPreset == "" && configFile == "" {
		usedPreset = scn.Preset
	}
	cfg, err := config.Resolve(configFile, usedPreset, seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := scenario.Run(ctx, scn, cfg, overlay.Options{Logf: log.Printf})
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scn.Name)
	fmt.Printf("final stage: %d\n", res.FinalStage)
	fmt.Printf("elapsed: %v\n", res.Elapsed)
	fmt.Printf("commits: %d  cancels: %d  advances: %d  taps: %d  shares: %d\n",
		res.Stats.Commits, res.Stats.Cancels, res.Stats.Advances, res.Stats.Taps, res.Stats.Shares)

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	sample := scn.Sample
	if sample <= 0 {
		sample = scenario.DefaultSample
	}
	runID, err := st.Save(storage.RunMetadata{
		Scenario:   scn.Name,
		Preset:     usedPreset,
		Seed:       cfg.Seed,
		Sample:     sample,
		Elapsed:    res.Elapsed,
		FinalStage: int(res.FinalStage),
		Stats:      res.Stats,
	}, res.Samples)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tELAPSED\tSTAGE\tCOMMITS\tCANCELS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Elapsed,
			run.FinalStage,
			run.Stats.Commits,
			run.Stats.Cancels,
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

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	position := make([]float64, len(samples))
	stages := make([]float64, len(samples))
	particles := make([]float64, len(samples))
	for i, s := range samples {
		position[i] = s.Position
		stages[i] = float64(s.Stage)
		particles[i] = float64(s.Particles)
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{position, "slider position"},
		{stages, "stage"},
		{particles, "live particles"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
