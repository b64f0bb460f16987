package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/armbridge/internal/arm"
	"github.com/san-kum/armbridge/internal/bridge"
	"github.com/san-kum/armbridge/internal/config"
	"github.com/san-kum/armbridge/internal/controllers"
	"github.com/san-kum/armbridge/internal/dynamo"
	"github.com/san-kum/armbridge/internal/integrators"
	"github.com/san-kum/armbridge/internal/metrics"
	"github.com/san-kum/armbridge/internal/peer"
	"github.com/san-kum/armbridge/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	preset     string
	record     bool
	verbose    bool
	// plot
	stream string
	column int
	// drive
	bridgePath     string
	controllerName string
	excitation     string
	exchanges      int
	interval       float64
	shoulderTarget float64
	elbowTarget    float64
	kp             float64
	ki             float64
	kd             float64
	live           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "armbridge",
		Short:         "stdin/stdout bridge between a muscle-driven arm and a controller",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".armbridge", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run [config]",
		Short: "run the arm and exchange frames over stdin/stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBridge,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&record, "record", false, "store exchanged frames in the data directory")

	variablesCmd := &cobra.Command{
		Use:   "variables",
		Short: "list muscle telemetry variables",
		Args:  cobra.NoArgs,
		RunE:  listVariables,
	}

	classifyCmd := &cobra.Command{
		Use:   "classify [muscle...]",
		Short: "show the control channel driving each muscle",
		RunE:  classifyMuscles,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded telemetry column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&stream, "stream", bridge.StreamCoordinates, "stream (coordinates, muscles, control)")
	plotCmd.Flags().IntVar(&column, "column", -1, "value index to plot (default: all, up to 6)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(titleStyle.Render("presets"))
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s  %s\n", p, labelStyle.Render(strings.Join(config.GetPreset(p).Handlers(), ", ")))
			}
			return nil
		},
	}

	driveCmd := &cobra.Command{
		Use:   "drive [config]",
		Short: "drive a child bridge from a controller over stdin/stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  driveBridge,
	}
	driveCmd.Flags().StringVar(&bridgePath, "bridge", "", "bridge executable (default: this binary)")
	driveCmd.Flags().StringVar(&controllerName, "controller", "constant", "controller ("+strings.Join(controllers.Names(), ", ")+")")
	driveCmd.Flags().StringVar(&excitation, "excitation", "0 0 0 0.5", "control vector (constant controller)")
	driveCmd.Flags().IntVar(&exchanges, "exchanges", 50, "number of exchanges")
	driveCmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "simulation time between exchanges")
	driveCmd.Flags().Float64Var(&shoulderTarget, "shoulder", config.DefaultShoulder, "shoulder target angle (pid)")
	driveCmd.Flags().Float64Var(&elbowTarget, "elbow", config.DefaultElbow, "elbow target angle (pid)")
	driveCmd.Flags().Float64Var(&kp, "kp", 2.0, "pid kp")
	driveCmd.Flags().Float64Var(&ki, "ki", 0.0, "pid ki")
	driveCmd.Flags().Float64Var(&kd, "kd", 0.1, "pid kd")
	driveCmd.Flags().StringVar(&preset, "preset", "", "preset passed to the bridge")
	driveCmd.Flags().BoolVar(&live, "live", false, "follow the session in a live terminal view")

	rootCmd.AddCommand(runCmd, variablesCmd, classifyCmd, listCmd, plotCmd, presetsCmd, driveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the preset, then the config file, then explicit
// flags, in increasing priority. It returns a name for the source.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	source := "default"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		source = preset
	}

	if len(args) > 0 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		source = args[0]
	}

	if cmd.Flags().Changed("dt") {
		cfg.Simulation.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Simulation.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Simulation.Integrator = integrator
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, source, nil
}

func newArm(cfg *config.Config) (*arm.Arm, error) {
	p := arm.DefaultParams()
	p.BodyName = cfg.Arm.Body
	p.MuscleSysName = cfg.Arm.ForceSubsystem

	names := make([]string, 0, len(cfg.Arm.MaxIsometricForce))
	for name := range cfg.Arm.MaxIsometricForce {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.SetMaxIsometricForce(name, cfg.Arm.MaxIsometricForce[name]); err != nil {
			return nil, err
		}
	}
	return arm.New(p)
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger()

	a, err := newArm(cfg)
	if err != nil {
		return err
	}
	integ, err := integrators.New(cfg.Simulation.Integrator)
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	var tap bridge.Tap
	if record {
		rec = &storage.Recorder{}
		tap = rec.Record
	}

	b, err := bridge.Build(cfg, a, bridge.Streams{In: os.Stdin, Out: os.Stdout}, logger, tap)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("closing handlers", "error", err)
		}
	}()

	sim := dynamo.New(a, integ)
	for _, h := range b.Handlers {
		sim.AddHandler(h)
	}
	sim.AddMetric(metrics.NewControlEffort())
	sim.AddMetric(metrics.NewEnergy(a))
	sim.AddMetric(metrics.NewPeakEnergy(a))
	sim.AddMetric(metrics.NewStability(50, 4))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	x0 := a.InitialState(cfg.Simulation.InitState.Shoulder, cfg.Simulation.InitState.Elbow)
	simCfg := dynamo.Config{
		Dt:            cfg.Simulation.Dt,
		Duration:      cfg.Simulation.Duration,
		ValidateState: cfg.Simulation.ValidateState,
	}

	logger.Info("starting", "source", source, "handlers", cfg.Handlers(), "dt", simCfg.Dt, "duration", simCfg.Duration, "integrator", cfg.Simulation.Integrator)
	fmt.Fprintln(os.Stdout, peer.ReadyLine)

	start := time.Now()
	result, err := sim.Run(ctx, x0, simCfg)
	if err != nil {
		return err
	}
	logger.Info("finished",
		"elapsed", time.Since(start),
		"steps", result.StepsTaken,
		"t", result.FinalTime,
		"halted", result.Halted,
		"exchanges", result.Handled,
	)

	if rec == nil {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Source:     source,
		Dt:         simCfg.Dt,
		Duration:   simCfg.Duration,
		Integrator: cfg.Simulation.Integrator,
		Handlers:   cfg.Handlers(),
		StepsTaken: result.StepsTaken,
		Halted:     result.Halted,
		Exchanges:  result.Handled,
		Metrics:    result.Metrics,
	}, rec.Frames())
	if err != nil {
		return err
	}
	logger.Info("recorded", "run", runID, "frames", len(rec.Frames()))
	return nil
}

func listVariables(cmd *cobra.Command, args []string) error {
	a, err := arm.New(arm.DefaultParams())
	if err != nil {
		return err
	}
	a.Sync(a.InitialState(config.DefaultShoulder, config.DefaultElbow), 0)
	m, _ := a.MuscleByName("BIClong")

	rows := make([][]string, 0)
	for _, v := range bridge.AllVariables() {
		rows = append(rows, []string{v.String(), strconv.FormatFloat(v.Read(m), 'g', 6, 64)})
	}
	fmt.Println(titleStyle.Render("muscle telemetry variables"))
	fmt.Println(renderTable([]string{"VARIABLE", "BIClong AT REST"}, rows, ""))
	return nil
}

func classifyMuscles(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		for _, mp := range arm.DefaultMuscles() {
			names = append(names, mp.Name)
		}
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		g, ok := bridge.Classify(name)
		if !ok {
			rows = append(rows, []string{name, "-", "unmapped"})
			continue
		}
		rows = append(rows, []string{name, strconv.Itoa(g.Channel()), g.String()})
	}
	fmt.Println(renderTable([]string{"MUSCLE", "CHANNEL", "GROUP"}, rows, "unmapped"))
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

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.2fs", run.Duration),
			fmt.Sprintf("%.4fs", run.Dt),
			run.Integrator,
			strconv.Itoa(run.StepsTaken),
			strconv.FormatBool(run.Halted),
		})
	}
	fmt.Println(renderTable([]string{"ID", "TIME", "DURATION", "DT", "INTEG", "STEPS", "HALTED"}, rows, ""))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID, stream)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no %s frames to plot", stream)
	}

	fmt.Println(metricLine("run", meta.ID))
	fmt.Println(metricLine("source", meta.Source))
	fmt.Println(metricLine("samples", strconv.Itoa(len(frames))))
	fmt.Println()

	columns := []int{column}
	if column < 0 {
		columns = columns[:0]
		for i := 0; i < len(frames[0].Values) && i < 6; i++ {
			columns = append(columns, i)
		}
	}

	for _, c := range columns {
		data, err := storage.Column(frames, c)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(columnCaption(stream, c)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func columnCaption(stream string, c int) string {
	switch stream {
	case bridge.StreamCoordinates:
		switch c {
		case 0:
			return arm.ShoulderCoordinate + " (rad)"
		case 1:
			return arm.ElbowCoordinate + " (rad)"
		}
	case bridge.StreamMuscles:
		if ms := arm.DefaultMuscles(); c < len(ms) {
			return ms[c].Name + " fiber length (m)"
		}
	case bridge.StreamControl:
		return bridge.Group(c).String() + " excitation"
	}
	return fmt.Sprintf("%s[%d] vs exchange", stream, c)
}

// session runs the controller side of a drive.
type session struct {
	client    *peer.Client
	ctrl      controllers.Controller
	exchanges int
	interval  float64
	logger    *slog.Logger
}

// run exchanges until the count is reached, the bridge halts or ctx is
// cancelled. onFrame, when set, sees every received frame.
func (s *session) run(ctx context.Context, onFrame func(n int, f peer.Frame)) ([]peer.Frame, error) {
	var frames []peer.Frame
	var last peer.Frame
	for i := 0; i < s.exchanges; i++ {
		u := s.ctrl.Compute(last.Joints, float64(i)*s.interval)
		f, err := s.client.Exchange(u[:])
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.logger.Info("bridge finished early", "exchanges", i)
				return frames, nil
			}
			return frames, err
		}
		frames = append(frames, f)
		last = f
		if onFrame != nil {
			onFrame(i+1, f)
		}
	}
	return frames, nil
}

// runLive runs the session under a bubbletea view. Quitting the view
// cancels the session through cancel.
func (s *session) runLive(ctx context.Context, cancel func(), coords []string) ([]peer.Frame, error) {
	p := tea.NewProgram(newLiveModel(coords, s.exchanges, cancel))

	var frames []peer.Frame
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		frames, runErr = s.run(ctx, func(n int, f peer.Frame) { p.Send(exchangeMsg{n: n, frame: f}) })
		p.Send(sessionDoneMsg{err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return frames, err
	}
	<-done
	return frames, runErr
}

func driveBridge(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, source, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	a, err := newArm(cfg)
	if err != nil {
		return err
	}
	shape, err := bridge.FrameShape(cfg, a)
	if err != nil {
		return err
	}

	var u bridge.ControlVector
	u.Apply(excitation)
	ctrl, err := controllers.New(controllerName, controllers.Params{
		Excitation:    controllers.Vector(u),
		ShoulderAngle: shoulderTarget,
		ElbowAngle:    elbowTarget,
		Kp:            kp,
		Ki:            ki,
		Kd:            kd,
	})
	if err != nil {
		return err
	}

	path := bridgePath
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return err
		}
		path = exe
	}
	childArgs := append([]string{"run"}, args...)
	if preset != "" {
		childArgs = append(childArgs, "--preset", preset)
	}
	if verbose {
		childArgs = append(childArgs, "--verbose")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := peer.Start(ctx, os.Stderr, path, childArgs...)
	if err != nil {
		return err
	}
	client.Logger = logger
	client.Expect(shape)
	logger.Debug("expecting frames", "source", source, "coordinates", shape.Coordinates, "muscles", shape.Muscles)

	if err := client.WaitReady(); err != nil {
		client.Close()
		return err
	}

	s := &session{client: client, ctrl: ctrl, exchanges: exchanges, interval: interval, logger: logger}
	var frames []peer.Frame
	if live {
		frames, err = s.runLive(ctx, cancel, shape.Coordinates)
	} else {
		frames, err = s.run(ctx, nil)
	}
	if err != nil {
		client.Close()
		return err
	}
	if err := client.Close(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("bridge exited: %w", err)
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames received")
	}

	fmt.Println(driveSummary(shape.Coordinates, frames))
	return nil
}

// driveSummary plots every joint over the session and lists the final
// group lengths.
func driveSummary(coords []string, frames []peer.Frame) string {
	var b strings.Builder
	series := make([][]float64, len(coords))
	for _, f := range frames {
		for i := range series {
			if i < len(f.Joints) {
				series[i] = append(series[i], f.Joints[i])
			}
		}
	}
	if len(series) > 0 && len(series[0]) > 0 {
		b.WriteString(jointPlot(series, coords, 10, 80) + "\n\n")
	}
	b.WriteString(metricLine("exchanges", strconv.Itoa(len(frames))) + "\n")
	b.WriteString(groupLines(frames[len(frames)-1].Muscles))
	return strings.TrimSuffix(b.String(), "\n")
}
