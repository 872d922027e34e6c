// Package main provides the muzak command line entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/muzak/internal/api/hook"
	"github.com/osa030/muzak/internal/app/bgm"
	"github.com/osa030/muzak/internal/app/interactive"
	"github.com/osa030/muzak/internal/app/keywatch"
	"github.com/osa030/muzak/internal/app/playback"
	"github.com/osa030/muzak/internal/app/runner"
	"github.com/osa030/muzak/internal/domain/track"
	"github.com/osa030/muzak/internal/infra/config"
	"github.com/osa030/muzak/internal/infra/logger"
	"github.com/osa030/muzak/internal/infra/pidfile"
)

const stopHint = "muzak stop"

var (
	// Flags must precede the command so that "muzak run ls -la" passes -la on.
	app        = kingpin.New("muzak", "Elevator music while your tasks run").Interspersed(false)
	configPath = app.Flag("config", "Path to config file").Envar("MUZAK_CONFIG").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	startCmd = app.Command("start", "Play music until ESC or Q is pressed")
	stopCmd  = app.Command("stop", "Stop the music")

	// run command
	runCmd  = app.Command("run", "Play music while a command runs")
	runArgs = runCmd.Arg("command", "Command line to run").Required().Strings()

	// hook commands
	hookCmd      = app.Command("hook", "Quiet entry points for editor and agent hooks")
	hookStartCmd = hookCmd.Command("start", "Start music and print an allow decision")
	hookStopCmd  = hookCmd.Command("stop", "Stop music")

	statusCmd = app.Command("status", "Show whether music is playing")
	listCmd   = app.Command("list", "List the tracks music is picked from")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command; usage errors exit 1
	command := parseCommand(os.Args[1:])

	// Initialize logger. stdout belongs to user messages and hook output.
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "warn",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(command))
}

// parseCommand parses args and terminates the application with status 1 on
// a usage error. kingpin itself exits 0 when no command is given, so that
// case is detected before parsing.
func parseCommand(args []string) string {
	if commandMissing(args) {
		app.FatalUsage("command not specified")
		return ""
	}
	command, err := app.Parse(args)
	if err != nil {
		app.Fatalf("%s, try --help", err)
		return ""
	}
	return command
}

// commandMissing reports whether args select no command without asking for
// help or completion, which kingpin answers itself.
func commandMissing(args []string) bool {
	ctx, err := app.ParseContext(args)
	if err != nil || ctx == nil || ctx.SelectedCommand != nil {
		return false
	}
	for _, el := range ctx.Elements {
		flag, ok := el.Clause.(*kingpin.FlagClause)
		if !ok {
			continue
		}
		name := flag.Model().Name
		if strings.HasPrefix(name, "help") || strings.HasPrefix(name, "completion") {
			return false
		}
	}
	return true
}

// run executes one command and returns the process exit code. Keeping this
// out of main lets deferred cleanup run before os.Exit.
func run(command string) (code int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Error().Err(err).Msg("failed to load config")
		return configFailure(command, err, os.Stdout, os.Stderr)
	}
	zlog.Debug().Msgf("config loaded: music=%s marker=%s player=%v", cfg.Music.Dir, cfg.State.MarkerPath, cfg.Player.Command)

	chain, chainErr := bgm.NewProviderChainFromConfig(cfg)
	var picker playback.TrackPicker = chain
	if chainErr != nil {
		zlog.Warn().Err(chainErr).Msg("track providers unavailable")
		picker = unavailablePicker{err: chainErr}
	}

	ctrl := playback.NewController(playback.Config{
		PlayerCommand: cfg.Player.Command,
		Shell:         cfg.Player.Shell,
		SweepPattern:  cfg.SweepPattern(),
	}, pidfile.New(cfg.State.MarkerPath), picker, os.Stdout)

	// Any unexpected failure must not leave music playing.
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("unexpected failure: %v", r)
			ctrl.Stop(true)
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", r)
			code = 1
		}
	}()

	switch command {
	case startCmd.FullCommand():
		interactive.New(ctrl, keywatch.Stdin, os.Stdout, cfg.PollInterval(), stopHint).Run(ctx)

	case stopCmd.FullCommand():
		ctrl.Stop(false)

	case runCmd.FullCommand():
		return runner.New(ctrl, cfg.Player.Shell).Run(ctx, *runArgs)

	case hookStartCmd.FullCommand():
		if err := hook.NewHandler(ctrl).Start(os.Stdout); err != nil {
			zlog.Warn().Err(err).Msg("failed to write hook acknowledgement")
		}

	case hookStopCmd.FullCommand():
		hook.NewHandler(ctrl).Stop()

	case statusCmd.FullCommand():
		printStatus(os.Stdout, ctrl)

	case listCmd.FullCommand():
		if chainErr != nil {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", chainErr)
			return 1
		}
		return printTracks(ctx, os.Stdout, os.Stderr, chain)
	}

	return 0
}

// configFailure reports an unusable configuration. Hooks must never block
// the caller, so they still succeed and hook start still allows.
func configFailure(command string, err error, stdout, stderr io.Writer) int {
	switch command {
	case hookStartCmd.FullCommand():
		if encErr := hook.NewHandler(nopPlayer{}).Start(stdout); encErr != nil {
			zlog.Warn().Err(encErr).Msg("failed to write hook acknowledgement")
		}
		return 0
	case hookStopCmd.FullCommand():
		return 0
	}
	fmt.Fprintf(stderr, "❌ Error: %v\n", err)
	return 1
}

func printStatus(w io.Writer, ctrl *playback.Controller) {
	if sess, ok := ctrl.Current(); ok {
		fmt.Fprintf(w, "🎵 playing (PID %d)\n", sess.PID)
		return
	}
	fmt.Fprintln(w, "🔇 not playing")
}

type candidateLister interface {
	Candidates(ctx context.Context) ([]track.Track, error)
}

func printTracks(ctx context.Context, stdout, stderr io.Writer, lister candidateLister) int {
	tracks, err := lister.Candidates(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Error: %v\n", err)
		return 1
	}
	for _, t := range tracks {
		fmt.Fprintf(stdout, "%-40s %s (%s)\n", t.Name, t.Path, t.Source)
	}
	return 0
}

// unavailablePicker reports why no track can be picked, so Start degrades
// to a failed Result instead of the command refusing to run at all.
type unavailablePicker struct {
	err error
}

func (p unavailablePicker) Pick(ctx context.Context) (track.Track, error) {
	return track.Track{}, p.err
}

// nopPlayer stands in for the controller when none could be built.
type nopPlayer struct{}

func (nopPlayer) Start(quiet bool) playback.Result {
	return playback.Result{Outcome: playback.OutcomeFailed}
}

func (nopPlayer) Stop(quiet bool) playback.Result {
	return playback.Result{Outcome: playback.OutcomeNotPlaying}
}
