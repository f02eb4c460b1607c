package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"interact/cmd/interact-gui/internal/theme"
	"interact/cmd/interact-gui/internal/ui"
	"interact/internal/adapter"
	"interact/internal/config"
	"interact/internal/controller"
	"interact/internal/event"
	"interact/internal/journal"
	"interact/internal/logging"
	"interact/internal/paint"
)

var (
	configPath = flag.String("config", "", "path to config file")
	watch      = flag.Bool("watch", true, "reload the configuration when the file changes")
)

func main() {
	flag.Parse()

	go func() {
		w := new(app.Window)
		w.Option(app.Title("interact"))
		w.Option(app.Size(unit.Dp(1024), unit.Dp(768)))

		if err := loop(w); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// session is the state shared between the window loop and the config watcher.
type session struct {
	mu        sync.Mutex
	completed []string
	err       error
}

func (s *session) status(ctl *controller.Controller) ui.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ui.Status{Live: ctl.Live(), Completed: s.completed, Err: s.err}
}

func loop(w *app.Window) error {
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	lcfg, err := cfg.Logging.LoggerConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, err := logging.New(lcfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	logging.SetDefault(logger)

	canvas := paint.New(func() {
		logger.Info("quit requested")
		// Handlers run inside the frame loop; close from outside it.
		go w.Perform(system.ActionClose)
	})
	ctl, err := controller.New(cfg, canvas.Actions().Resolve,
		controller.WithLogger(logger.WithComponent("controller")))
	if err != nil {
		return err
	}

	sess := &session{}
	input := adapter.New(adapter.DispatcherFunc(func(ev event.Event, s event.State) {
		res, err := ctl.Feed(ev, s)
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if err != nil {
			sess.err = err
			return
		}
		if len(res.Completed) > 0 {
			sess.completed = res.Completed
			sess.err = nil
		}
	}), adapter.WithScrollScale(cfg.Input.ScrollScale), adapter.WithKeyRepeat(cfg.Input.KeyRepeat))

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()
		if _, err := ctl.StartRecording(j, "gui"); err != nil {
			return err
		}
		defer ctl.StopRecording()
	}

	if *watch {
		loader.OnChange(func(next *config.Config) {
			err := ctl.Reload(next)
			if err == nil {
				input.Configure(adapter.WithScrollScale(next.Input.ScrollScale), adapter.WithKeyRepeat(next.Input.KeyRepeat))
			}
			sess.mu.Lock()
			sess.err = err
			sess.mu.Unlock()
			w.Invalidate()
		})
		if err := loader.Watch(); err != nil {
			logger.Warn("config watch unavailable", slog.Any("error", err))
		} else {
			defer loader.Close()
			go func() {
				for err := range loader.Errors() {
					logger.Warn("config reload failed", slog.Any("error", err))
					sess.mu.Lock()
					sess.err = err
					sess.mu.Unlock()
					w.Invalidate()
				}
			}()
		}
	}

	t := theme.NewTheme(material.NewTheme())
	view := ui.NewCanvas(t)

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for _, ev := range view.Events(gtx) {
				input.FromGio(ev)
			}
			view.Layout(gtx, canvas.Snapshot(), sess.status(ctl))

			e.Frame(gtx.Ops)
		}
	}
}
