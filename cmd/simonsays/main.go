// Package main provides the CLI entrypoint for simonsays.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/simonsays/internal/config"
	"github.com/verte-zerg/simonsays/internal/engine"
	"github.com/verte-zerg/simonsays/internal/generator"
	"github.com/verte-zerg/simonsays/internal/gesture"
	"github.com/verte-zerg/simonsays/internal/model"
	"github.com/verte-zerg/simonsays/internal/replay"
	"github.com/verte-zerg/simonsays/internal/sensor"
	"github.com/verte-zerg/simonsays/internal/session"
	"github.com/verte-zerg/simonsays/internal/stats"
	"github.com/verte-zerg/simonsays/internal/store"
	"github.com/verte-zerg/simonsays/internal/tui"
)

const (
	defaultRoundSeconds = engine.DefaultRoundSeconds
	defaultSequence     = engine.DefaultSequenceLength
	defaultTilt         = gesture.DefaultTiltThreshold
	defaultShake        = gesture.DefaultShakeThreshold
	defaultIntervalMs   = 100
	defaultWeakTop      = 2
	defaultWeakFactor   = 2.0
	defaultCurveWindow  = 10
)

const (
	sourceKeyboard = "keyboard"
	sourceReplay   = "replay"
)

var (
	gameRoundSeconds int
	gameSequence     int
	gameSeed         int64
	gameFocusWeak    bool
	gameWeakTop      int
	gameWeakFactor   float64

	sensorTilt       float64
	sensorShake      float64
	sensorIntervalMs int
	sensorSource     string
	sensorReplayFile string
	sensorLoop       bool

	replayFile string
	replayRuns int

	classifyFile string
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logErrf("failed to load .env: %v\n", err)
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simonsays",
		Short:         "Simon Says reaction game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	addGameFlags(rootCmd)
	addSensorFlags(rootCmd)
	rootCmd.Flags().StringVar(&sensorSource, "source", sourceKeyboard, "motion source: keyboard or replay")
	rootCmd.Flags().StringVar(&sensorReplayFile, "replay-file", "", "sample file for --source replay")
	rootCmd.Flags().BoolVar(&sensorLoop, "loop", false, "loop the replay file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newClassifyCmd())

	return rootCmd
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&gameRoundSeconds, "round-seconds", defaultRoundSeconds, "seconds per round")
	cmd.Flags().IntVar(&gameSequence, "sequence", defaultSequence, "prompts generated at run start")
	cmd.Flags().Int64Var(&gameSeed, "seed", 0, "prompt seed (0: time based)")
	cmd.Flags().BoolVar(&gameFocusWeak, "focus-weak", false, "bias prompts toward missed gestures")
	cmd.Flags().IntVar(&gameWeakTop, "weak-top", defaultWeakTop, "number of weak gestures to focus on")
	cmd.Flags().Float64Var(&gameWeakFactor, "weak-factor", defaultWeakFactor, "extra weight for weak gestures")
}

func addSensorFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&sensorTilt, "tilt", defaultTilt, "tilt threshold in g")
	cmd.Flags().Float64Var(&sensorShake, "shake", defaultShake, "shake threshold in g per sample")
	cmd.Flags().IntVar(&sensorIntervalMs, "interval-ms", defaultIntervalMs, "sample interval in milliseconds")
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("simonsays needs an interactive terminal (try: simonsays replay --file <samples>)")
	}

	var src sensor.Source
	var kb *sensor.Keyboard
	switch cfg.Source {
	case sourceReplay:
		samples, err := sensor.LoadSamples(cfg.ReplayFile)
		if err != nil {
			return fmt.Errorf("failed to load replay file: %w", err)
		}
		src = sensor.NewReplay(samples, cfg.Loop)
	default:
		kb = sensor.NewKeyboard(0)
		src = kb
	}

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close stats store: %v\n", cerr)
		}
	}()

	m := tui.NewModel(cfg, st, newGenerator(cfg.Seed), src, kb)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Play a recorded sample file headlessly",
		Args:  cobra.NoArgs,
		RunE:  runReplayCmd,
	}
	addGameFlags(cmd)
	addSensorFlags(cmd)
	cmd.Flags().StringVar(&replayFile, "file", "", "sample file (default: sensor.replay-file from config)")
	cmd.Flags().IntVar(&replayRuns, "runs", 0, "stop after N runs (0: until samples run out)")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	path := replayFile
	if path == "" {
		path = cfg.ReplayFile
	}
	if path == "" {
		return fmt.Errorf("--file is required")
	}
	if replayRuns < 0 {
		return fmt.Errorf("--runs must be >= 0")
	}
	samples, err := sensor.LoadSamples(path)
	if err != nil {
		return fmt.Errorf("failed to load replay file: %w", err)
	}

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close stats store: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := &transcript{w: cmd.OutOrStdout()}
	e := engine.New(engine.Config{
		RoundSeconds:   cfg.RoundSeconds,
		SequenceLength: cfg.SequenceLength,
	}, newGenerator(cfg.Seed), session.New())
	var saveErr error
	e.SetHooks(engine.Hooks{
		PromptChanged: func(p model.Prompt) {
			out.printf("round %d: %s\n", e.Round(), p)
		},
		RoundResolved: func(o model.RoundOutcome) {
			out.printf("  %s %s (%s) %dms\n", o.Result, o.Gesture, o.Cause, o.Reaction.Milliseconds())
		},
		RunEnded: func(message string, _ int) {
			out.printf("%s\n\n", message)
		},
		RunRecorded: func(run model.RunRecord) {
			if err := st.InsertRun(ctx, run); err != nil && saveErr == nil {
				saveErr = fmt.Errorf("failed to save run: %w", err)
			}
		},
	})

	res, err := replay.Run(ctx, samples, gesture.NewClassifier(cfg.TiltThreshold, cfg.ShakeThreshold), e, replay.Options{
		SampleInterval: cfg.SampleInterval,
		MaxRuns:        replayRuns,
	})
	if err != nil {
		return fmt.Errorf("replay interrupted: %w", err)
	}
	if saveErr != nil {
		return saveErr
	}
	out.printf("Replayed %d samples in %d runs", res.Samples, res.Runs)
	if res.Exhausted {
		out.printf(" (samples ran out; last run played out at rest)")
	}
	out.printf("\n\n")
	if out.err != nil {
		return fmt.Errorf("failed to write output: %w", out.err)
	}
	return renderReplayStats(ctx, cmd.OutOrStdout(), st)
}

func renderReplayStats(ctx context.Context, w io.Writer, st *store.Store) error {
	report, err := stats.BuildReport(ctx, st, model.StatsConfig{}, defaultCurveWindow)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := stats.RenderSummary(w, report.Runs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(w, report.Runs, defaultCurveWindow, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if err := stats.RenderGestureTable(w, report.GestureAggsAll); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the gesture classified for each sample",
		Args:  cobra.NoArgs,
		RunE:  runClassifyCmd,
	}
	addSensorFlags(cmd)
	cmd.Flags().StringVar(&classifyFile, "file", "", "sample file")
	return cmd
}

func runClassifyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if classifyFile == "" {
		return fmt.Errorf("--file is required")
	}
	samples, err := sensor.LoadSamples(classifyFile)
	if err != nil {
		return fmt.Errorf("failed to load sample file: %w", err)
	}
	c := gesture.NewClassifier(cfg.TiltThreshold, cfg.ShakeThreshold)
	out := &transcript{w: cmd.OutOrStdout()}
	for i, s := range samples {
		out.printf("%d\t%.3f\t%.3f\t%.3f\t%s\n", i+1, s.X, s.Y, s.Z, c.Classify(s))
	}
	if out.err != nil {
		return fmt.Errorf("failed to write output: %w", out.err)
	}
	return nil
}

// transcript keeps the first write error so hooks can print freely.
type transcript struct {
	w   io.Writer
	err error
}

func (t *transcript) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "round-seconds", &gameRoundSeconds, fileCfg.Game.RoundSeconds)
	applyIntConfig(cmd, "sequence", &gameSequence, fileCfg.Game.Sequence)
	applyInt64Config(cmd, "seed", &gameSeed, fileCfg.Game.Seed)
	applyBoolConfig(cmd, "focus-weak", &gameFocusWeak, fileCfg.Game.FocusWeak)
	applyIntConfig(cmd, "weak-top", &gameWeakTop, fileCfg.Game.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &gameWeakFactor, fileCfg.Game.WeakFactor)
	applyFloatConfig(cmd, "tilt", &sensorTilt, fileCfg.Sensor.Tilt)
	applyFloatConfig(cmd, "shake", &sensorShake, fileCfg.Sensor.Shake)
	applyIntConfig(cmd, "interval-ms", &sensorIntervalMs, fileCfg.Sensor.IntervalMs)
	applyStringConfig(cmd, "source", &sensorSource, fileCfg.Sensor.Source)
	applyStringConfig(cmd, "replay-file", &sensorReplayFile, fileCfg.Sensor.ReplayFile)
	applyBoolConfig(cmd, "loop", &sensorLoop, fileCfg.Sensor.Loop)

	cfg := model.Config{
		RoundSeconds:   gameRoundSeconds,
		SequenceLength: gameSequence,
		TiltThreshold:  sensorTilt,
		ShakeThreshold: sensorShake,
		SampleInterval: time.Duration(sensorIntervalMs) * time.Millisecond,
		Seed:           gameSeed,
		Source:         strings.ToLower(strings.TrimSpace(sensorSource)),
		ReplayFile:     sensorReplayFile,
		Loop:           sensorLoop,
		FocusWeak:      gameFocusWeak,
		WeakTop:        gameWeakTop,
		WeakFactor:     gameWeakFactor,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newGenerator(seed int64) *generator.Generator {
	if seed == 0 {
		return generator.New()
	}
	return generator.NewSeeded(seed)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# simonsays configuration
# Uncomment a value to enable it. CLI flags override config values.
# Set %s (or put it in .env) to use another file.

[game]
# round-seconds = %d      # Seconds per round
# sequence = %d           # Prompts generated at run start
# seed = 0                # Prompt seed (0: time based)
# focus-weak = false      # Bias prompts toward missed gestures
# weak-top = %d           # Number of weak gestures to focus on
# weak-factor = %.1f      # Extra weight for weak gestures

[sensor]
# tilt = %.2f             # Tilt threshold in g
# shake = %.2f            # Shake threshold in g per sample
# interval-ms = %d        # Sample interval in milliseconds
# source = %q             # keyboard or replay
# replay-file = ""        # Sample file for source = "replay"
# loop = false            # Loop the replay file
`,
		config.EnvConfigPath,
		defaultRoundSeconds,
		defaultSequence,
		defaultWeakTop,
		defaultWeakFactor,
		defaultTilt,
		defaultShake,
		defaultIntervalMs,
		sourceKeyboard,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.RoundSeconds <= 0 {
		return fmt.Errorf("--round-seconds must be > 0")
	}
	if cfg.SequenceLength < 0 {
		return fmt.Errorf("--sequence must be >= 0")
	}
	if cfg.TiltThreshold <= 0 {
		return fmt.Errorf("--tilt must be > 0")
	}
	if cfg.ShakeThreshold <= 0 {
		return fmt.Errorf("--shake must be > 0")
	}
	if cfg.SampleInterval <= 0 {
		return fmt.Errorf("--interval-ms must be > 0")
	}
	switch cfg.Source {
	case sourceKeyboard:
	case sourceReplay:
		if cfg.ReplayFile == "" {
			return fmt.Errorf("--replay-file is required with --source replay")
		}
	default:
		return fmt.Errorf("unknown --source %q (want %s or %s)", cfg.Source, sourceKeyboard, sourceReplay)
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
