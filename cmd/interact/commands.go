package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"interact/internal/adapter"
	"interact/internal/config"
	"interact/internal/controller"
	"interact/internal/event"
	"interact/internal/journal"
	"interact/internal/keys"
	"interact/internal/paint"
	"interact/internal/pattern"
	"interact/internal/script"
)

func cmdCheck() {
	cfg := loadConfig()
	actions := paint.New(nil).Actions()

	if _, err := controller.Build(cfg.Gestures, actions.Resolve); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid gestures: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Configuration OK ===")
	fmt.Printf("Gestures: %d\n", len(cfg.Gestures))
	fmt.Println()
	fmt.Printf("%-12s %-10s %s\n", "Name", "Action", "Pattern")
	fmt.Println(strings.Repeat("-", 60))
	for _, g := range cfg.Gestures {
		action := g.Action
		if action == "" {
			action = "-"
		}
		fmt.Printf("%-12s %-10s %s\n", g.Name, action, g.Pattern)
	}

	fmt.Println()
	fmt.Println("Actions:")
	for _, g := range cfg.Gestures {
		names, _ := pattern.ActionNames(g.Pattern)
		if len(names) > 0 {
			fmt.Printf("  %-12s %s\n", g.Name, strings.Join(names, ", "))
		}
	}
}

func cmdRun(path string) {
	cfg := loadConfig()
	logger := setupLogger(cfg)
	defer logger.Close()

	steps, err := script.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	var completions []string
	var ctl *controller.Controller
	canvas, ctl, a := newPipeline(cfg, logger, func(next adapter.Dispatcher) adapter.Dispatcher {
		return adapter.DispatcherFunc(func(ev event.Event, s event.State) {
			res, err := ctl.Feed(ev, s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			completions = append(completions, res.Completed...)
		})
	})

	if cfg.Journal.Enabled || *record {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()

		id, err := ctl.StartRecording(j, "script:"+path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := ctl.StopRecording(); err != nil {
				fmt.Fprintf(os.Stderr, "Error ending session: %v\n", err)
			}
		}()
		fmt.Printf("Recording session %d\n", id)
	}

	script.Apply(steps, a)

	stats := ctl.Stats()
	fmt.Println("=== Run Summary ===")
	fmt.Printf("Steps:       %d\n", len(steps))
	fmt.Printf("Dispatched:  %d\n", stats.Dispatched)
	fmt.Printf("Replays:     %d\n", stats.Replays)
	fmt.Printf("Completions: %d\n", stats.Completions)
	if stats.Panics > 0 {
		fmt.Printf("Panics:      %d\n", stats.Panics)
	}
	if dropped := a.Counts().Dropped; dropped > 0 {
		fmt.Printf("Dropped:     %d (key repeat disabled)\n", dropped)
	}
	fmt.Println()

	fmt.Println("Completed gestures:")
	if len(completions) == 0 {
		fmt.Println("  (none)")
	}
	for _, name := range completions {
		fmt.Printf("  - %s\n", name)
	}
	if live := ctl.Live(); len(live) > 0 {
		fmt.Printf("In progress: %s\n", strings.Join(live, ", "))
	}
	fmt.Println()

	snap := canvas.Snapshot()
	h, sat, v := canvas.HSV()
	fmt.Println("Canvas:")
	fmt.Printf("  Lines:      %d\n", len(snap.Lines))
	fmt.Printf("  Circles:    %d\n", len(snap.Circles))
	fmt.Printf("  Background: #%02x%02x%02x (h=%.0f s=%.2f v=%.2f)\n",
		snap.Background.R, snap.Background.G, snap.Background.B, h, sat, v)
}

func cmdSessions() {
	cfg := loadConfig()
	j := openJournal(cfg)
	defer j.Close()

	sessions, err := j.Sessions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing sessions: %v\n", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return
	}

	fmt.Println("=== Sessions ===")
	fmt.Printf("%-6s %-20s %-10s %-8s %-8s %s\n", "ID", "Started", "Duration", "Events", "Fired", "Source")
	fmt.Println(strings.Repeat("-", 72))
	for _, s := range sessions {
		duration := "open"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Printf("%-6d %-20s %-10s %-8d %-8d %s\n",
			s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), duration, s.EventCount, s.FiringCount, s.Source)
	}
}

func cmdHistory(id int64) {
	cfg := loadConfig()
	j := openJournal(cfg)
	defer j.Close()

	entries, firings := loadSession(j, id)

	bySeq := make(map[int64][]string)
	for _, f := range firings {
		bySeq[f.Seq] = append(bySeq[f.Seq], f.Gesture)
	}

	fmt.Printf("# session %d\n", id)
	for _, e := range entries {
		line := script.FromEvent(e.Event, e.State).String()
		if names, ok := bySeq[e.Seq]; ok {
			line = fmt.Sprintf("%-28s # fired: %s", line, strings.Join(names, ", "))
		}
		fmt.Println(line)
	}
}

func cmdReplay(id int64) {
	cfg := loadConfig()
	logger := setupLogger(cfg)
	defer logger.Close()

	j := openJournal(cfg)
	defer j.Close()

	entries, firings := loadSession(j, id)

	type firing struct {
		seq     int64
		gesture string
	}
	var replayed []firing
	var seq int64
	var ctl *controller.Controller
	_, ctl, a := newPipeline(cfg, logger, func(adapter.Dispatcher) adapter.Dispatcher {
		return adapter.DispatcherFunc(func(ev event.Event, s event.State) {
			res, _ := ctl.Feed(ev, s)
			for _, name := range res.Completed {
				replayed = append(replayed, firing{seq, name})
			}
		})
	})

	for _, e := range entries {
		seq = e.Seq
		a.Inject(e.Event, e.State)
	}

	var recorded []firing
	for _, f := range firings {
		recorded = append(recorded, firing{f.Seq, f.Gesture})
	}

	fmt.Printf("Replayed %d events of session %d\n", len(entries), id)
	fmt.Printf("Recorded completions: %d\n", len(recorded))
	fmt.Printf("Replayed completions: %d\n", len(replayed))

	mismatch := len(recorded) != len(replayed)
	for i := 0; !mismatch && i < len(recorded); i++ {
		mismatch = recorded[i] != replayed[i]
	}
	if mismatch {
		fmt.Println("\n✗ Completions differ (has the configuration changed since recording?)")
		os.Exit(1)
	}
	fmt.Println("\n✓ Completions match")
}

func loadSession(j *journal.Journal, id int64) ([]journal.Entry, []journal.Firing) {
	sess, err := j.Session(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading session: %v\n", err)
		os.Exit(1)
	}
	if sess == nil {
		fmt.Fprintf(os.Stderr, "No session %d\n", id)
		os.Exit(1)
	}

	entries, err := j.Events(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading events: %v\n", err)
		os.Exit(1)
	}
	firings, err := j.Firings(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading firings: %v\n", err)
		os.Exit(1)
	}
	return entries, firings
}

func cmdStats() {
	cfg := loadConfig()
	j := openJournal(cfg)
	defer j.Close()

	counts, err := j.GestureCounts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading counts: %v\n", err)
		os.Exit(1)
	}
	if len(counts) == 0 {
		fmt.Println("No gestures recorded.")
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, k int) bool {
		if counts[names[i]] != counts[names[k]] {
			return counts[names[i]] > counts[names[k]]
		}
		return names[i] < names[k]
	})

	fmt.Println("=== Gesture Counts ===")
	for _, name := range names {
		fmt.Printf("%-16s %d\n", name, counts[name])
	}
}

func cmdKeys() {
	for _, e := range keys.All() {
		fmt.Printf("%-16s %d\n", strings.ToLower(e.Name), e.Code)
	}
}

func cmdInit() {
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	_, created, err := config.LoadOrCreate(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Wrote default configuration to %s\n", path)
		return
	}
	fmt.Printf("Configuration already exists at %s\n", path)
}
