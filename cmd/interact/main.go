// interact is the command line front end for the gesture engine: it checks
// configurations, runs input scripts headless and inspects the journal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"interact/internal/adapter"
	"interact/internal/config"
	"interact/internal/controller"
	"interact/internal/journal"
	"interact/internal/logging"
	"interact/internal/paint"
)

var (
	configPath = flag.String("config", "", "path to config file")
	record     = flag.Bool("record", false, "record the run into the journal even if it is disabled")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	switch cmd {
	case "check":
		cmdCheck()
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: interact run <script>")
			os.Exit(1)
		}
		cmdRun(flag.Arg(1))
	case "sessions":
		cmdSessions()
	case "history":
		cmdHistory(sessionArg("history"))
	case "replay":
		cmdReplay(sessionArg("replay"))
	case "stats":
		cmdStats()
	case "keys":
		cmdKeys()
	case "init":
		cmdInit()
	case "schema":
		os.Stdout.Write(config.SchemaJSON())
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `interact - gesture engine tool

Usage: interact [options] <command> [args]

Commands:
  check           Validate the configuration and list its gestures
  run <script>    Feed an input script through the configured gestures
  sessions        List recorded sessions
  history <id>    Print a recorded session as a script with its completions
  replay <id>     Re-run a recorded session and compare the completions
  stats           Show how often each gesture fired across all sessions
  keys            List key names usable in patterns and scripts
  init            Write the default configuration if none exists
  schema          Print the configuration JSON schema
  help            Show this help message

Options:
  -config <path>  Path to config file (default: platform config dir)
  -record         Record 'run' into the journal`)
}

func sessionArg(cmd string) int64 {
	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Usage: interact %s <session-id>\n", cmd)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(flag.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid session id %q\n", flag.Arg(1))
		os.Exit(1)
	}
	return id
}

func loadConfig() *config.Config {
	cfg, err := config.Load(*configPath)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprintln(os.Stderr, "Invalid configuration:")
			for _, e := range verrs {
				fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogger(cfg *config.Config) *logging.Logger {
	lcfg, err := cfg.Logging.LoggerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(lcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	return logger
}

// newPipeline wires a canvas, a controller and an adapter for cfg.
func newPipeline(cfg *config.Config, logger *logging.Logger, d func(adapter.Dispatcher) adapter.Dispatcher) (*paint.Canvas, *controller.Controller, *adapter.Adapter) {
	canvas := paint.New(func() {
		logger.Info("quit requested")
	})
	ctl, err := controller.New(cfg, canvas.Actions().Resolve,
		controller.WithLogger(logger.WithComponent("controller")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building gestures: %v\n", err)
		os.Exit(1)
	}

	var dispatcher adapter.Dispatcher = ctl
	if d != nil {
		dispatcher = d(ctl)
	}
	a := adapter.New(dispatcher,
		adapter.WithScrollScale(cfg.Input.ScrollScale),
		adapter.WithKeyRepeat(cfg.Input.KeyRepeat))
	return canvas, ctl, a
}

func openJournal(cfg *config.Config) *journal.Journal {
	if _, err := os.Stat(cfg.Journal.Path); os.IsNotExist(err) {
		fmt.Printf("No journal found at %s\n", cfg.Journal.Path)
		os.Exit(0)
	}
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	return j
}
