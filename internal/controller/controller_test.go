package controller

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interact/internal/config"
	"interact/internal/event"
	"interact/internal/journal"
	"interact/internal/keys"
	"interact/internal/logging"
	"interact/internal/pattern"
)

func down(code int) event.Event { return event.Key{Code: code, Phase: event.Down} }
func up(code int) event.Event   { return event.Key{Code: code, Phase: event.Up} }

func gestures(decls ...config.GestureConfig) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Gestures = decls
	return cfg
}

type calls struct {
	mu  sync.Mutex
	log []string
}

func (c *calls) action(name string) func(event.State) {
	return func(event.State) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.log = append(c.log, name)
	}
}

func (c *calls) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

func newActions(c *calls, names ...string) pattern.Actions {
	actions := make(pattern.Actions)
	for _, n := range names {
		actions[n] = c.action(n)
	}
	return actions
}

func TestBuild(t *testing.T) {
	c := &calls{}
	actions := newActions(c, "quit", "arm")

	built, err := Build([]config.GestureConfig{
		{Name: "quit", Pattern: "q", Action: "quit"},
		{Name: "armed", Pattern: "chord(a[arm], move*)"},
	}, actions.Resolve)
	require.NoError(t, err)
	require.Len(t, built, 2)
	assert.Equal(t, "quit", built[0].Name)
	assert.NotNil(t, built[0].Recognizer.Handler())
	assert.Equal(t, "armed", built[1].Name)
}

func TestBuildErrors(t *testing.T) {
	actions := pattern.Actions{"quit": nil}

	tests := []struct {
		name    string
		decl    config.GestureConfig
		wantErr string
	}{
		{"syntax", config.GestureConfig{Name: "bad", Pattern: "chord("}, `gesture "bad"`},
		{"pattern action", config.GestureConfig{Name: "x", Pattern: "q[nope]"}, `unknown action "nope"`},
		{"top-level action", config.GestureConfig{Name: "y", Pattern: "q", Action: "nope"}, `gesture "y": unknown action "nope"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]config.GestureConfig{tt.decl}, actions.Resolve)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildNilResolver(t *testing.T) {
	_, err := Build([]config.GestureConfig{{Name: "q", Pattern: "q", Action: "quit"}}, nil)
	assert.Error(t, err)

	_, err = Build([]config.GestureConfig{{Name: "q", Pattern: "q"}}, nil)
	assert.NoError(t, err)
}

func TestFeedFiresAction(t *testing.T) {
	c := &calls{}
	ctl, err := New(gestures(config.GestureConfig{Name: "quit", Pattern: "q", Action: "quit"}), newActions(c, "quit").Resolve)
	require.NoError(t, err)

	res, err := ctl.Feed(down(keys.Q), event.State{})
	require.NoError(t, err)
	assert.Equal(t, []string{"quit"}, res.Completed)

	ctl.Dispatch(down(keys.W), event.State{})
	ctl.Dispatch(down(keys.Q), event.State{})
	assert.Equal(t, []string{"quit", "quit"}, c.names())
	assert.Equal(t, []string{"quit"}, ctl.Gestures())
}

func TestActionRunsAfterPatternHandler(t *testing.T) {
	c := &calls{}
	ctl, err := New(gestures(config.GestureConfig{Name: "q", Pattern: "q[inner]", Action: "outer"}),
		newActions(c, "inner", "outer").Resolve)
	require.NoError(t, err)

	ctl.Dispatch(down(keys.Q), event.State{})
	assert.Equal(t, []string{"inner", "outer"}, c.names())
}

func TestChordThroughController(t *testing.T) {
	c := &calls{}
	ctl, err := New(gestures(
		config.GestureConfig{Name: "line", Pattern: "chord(l[begin], move[update]*)", Action: "done"},
	), newActions(c, "begin", "update", "done").Resolve)
	require.NoError(t, err)

	for _, ev := range []event.Event{down(keys.L), event.MouseMove{}, up(keys.LShift), event.MouseMove{}} {
		ctl.Dispatch(ev, event.State{})
	}
	assert.Equal(t, []string{"line"}, ctl.Live())

	res, err := ctl.Feed(up(keys.L), event.State{})
	require.NoError(t, err)
	assert.Equal(t, []string{"line"}, res.Completed)
	assert.Equal(t, []string{"begin", "update", "update", "done"}, c.names())
}

func TestHandlerPanicRecovered(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(logging.DefaultConfig(), &buf)

	c := &calls{}
	actions := newActions(c, "ok")
	actions["boom"] = func(event.State) { panic("boom") }

	ctl, err := New(gestures(
		config.GestureConfig{Name: "explode", Pattern: "x", Action: "boom"},
		config.GestureConfig{Name: "fine", Pattern: "y", Action: "ok"},
	), actions.Resolve, WithLogger(logger))
	require.NoError(t, err)

	_, err = ctl.Feed(down(keys.X), event.State{})
	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "boom", perr.Value)
	assert.Equal(t, down(keys.X), perr.Event)
	assert.NotEmpty(t, perr.Stack)
	assert.Contains(t, buf.String(), "gesture handler panicked")

	assert.NotPanics(t, func() { ctl.Dispatch(down(keys.X), event.State{}) })

	res, err := ctl.Feed(down(keys.Y), event.State{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fine"}, res.Completed)

	stats := ctl.Stats()
	assert.Equal(t, uint64(2), stats.Panics)
	assert.Equal(t, uint64(2), stats.Resets)
}

func TestReload(t *testing.T) {
	c := &calls{}
	actions := newActions(c, "a", "b")
	ctl, err := New(gestures(config.GestureConfig{Name: "a", Pattern: "a", Action: "a"}), actions.Resolve)
	require.NoError(t, err)

	require.NoError(t, ctl.Reload(gestures(config.GestureConfig{Name: "b", Pattern: "b", Action: "b"})))
	assert.Equal(t, []string{"b"}, ctl.Gestures())

	ctl.Dispatch(down(keys.A), event.State{})
	ctl.Dispatch(down(keys.B), event.State{})
	assert.Equal(t, []string{"b"}, c.names())

	err = ctl.Reload(gestures(config.GestureConfig{Name: "bad", Pattern: "b", Action: "missing"}))
	assert.Error(t, err)
	assert.Equal(t, []string{"b"}, ctl.Gestures())
	assert.Equal(t, uint64(1), ctl.Stats().Reloads)
}

func TestReloadDiscardsProgress(t *testing.T) {
	ctl, err := New(gestures(config.GestureConfig{Name: "ab", Pattern: "a b"}), nil)
	require.NoError(t, err)

	ctl.Dispatch(down(keys.A), event.State{})
	assert.Equal(t, []string{"ab"}, ctl.Live())

	require.NoError(t, ctl.Reload(gestures(config.GestureConfig{Name: "ab", Pattern: "a b"})))
	res, err := ctl.Feed(down(keys.B), event.State{})
	require.NoError(t, err)
	assert.Empty(t, res.Completed)
}

func TestConcurrentDispatchAndReload(t *testing.T) {
	ctl, err := New(gestures(config.GestureConfig{Name: "q", Pattern: "q"}), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ctl.Dispatch(down(keys.Q), event.State{})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 10; j++ {
			assert.NoError(t, ctl.Reload(gestures(config.GestureConfig{Name: "q", Pattern: "q"})))
		}
	}()
	wg.Wait()

	assert.Equal(t, uint64(10), ctl.Stats().Reloads)
}

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecording(t *testing.T) {
	j := openJournal(t)
	ctl, err := New(gestures(
		config.GestureConfig{Name: "quit", Pattern: "q"},
		config.GestureConfig{Name: "any", Pattern: "q | w"},
	), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, ctl.StopRecording(), ErrNotRecording)

	id, err := ctl.StartRecording(j, "test")
	require.NoError(t, err)
	_, err = ctl.StartRecording(j, "again")
	assert.Error(t, err)

	s := event.State{Pointer: event.Point{X: 1, Y: 2}}
	ctl.Dispatch(down(keys.Q), s)
	ctl.Dispatch(event.MouseMove{}, s)
	ctl.Dispatch(down(keys.W), s)
	require.NoError(t, ctl.StopRecording())

	ctl.Dispatch(down(keys.Q), s)

	entries, err := j.Events(id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, s, entries[0].State)
	assert.Equal(t, int64(2), entries[2].Seq)

	firings, err := j.Firings(id)
	require.NoError(t, err)
	require.Len(t, firings, 3)
	assert.Equal(t, "quit", firings[0].Gesture)
	assert.Equal(t, "any", firings[1].Gesture)
	assert.Equal(t, "any", firings[2].Gesture)
	assert.Equal(t, int64(2), firings[2].Seq)

	sess, err := j.Session(id)
	require.NoError(t, err)
	assert.NotNil(t, sess.EndedAt)
	assert.Zero(t, ctl.Stats().JournalErrors)
}

func TestReplayReproducesFirings(t *testing.T) {
	j := openJournal(t)
	cfg := gestures(
		config.GestureConfig{Name: "ab", Pattern: "a b"},
		config.GestureConfig{Name: "bq", Pattern: "b q"},
		config.GestureConfig{Name: "drag", Pattern: "keys(mouse.left until(move, mouse.left.up))"},
	)

	ctl, err := New(cfg, nil)
	require.NoError(t, err)
	id, err := ctl.StartRecording(j, "original")
	require.NoError(t, err)
	for _, ev := range []event.Event{
		down(keys.A), down(keys.B), down(keys.Q),
		event.MouseButton{Button: event.Left, Phase: event.Down},
		event.MouseMove{}, event.MouseMove{},
		event.MouseButton{Button: event.Left, Phase: event.Up},
	} {
		ctl.Dispatch(ev, event.State{})
	}
	require.NoError(t, ctl.StopRecording())

	entries, err := j.Events(id)
	require.NoError(t, err)
	original, err := j.Firings(id)
	require.NoError(t, err)
	require.NotEmpty(t, original)

	replayer, err := New(cfg, nil)
	require.NoError(t, err)
	var replayed []string
	for _, e := range entries {
		res, err := replayer.Feed(e.Event, e.State)
		require.NoError(t, err)
		replayed = append(replayed, res.Completed...)
	}

	var want []string
	for _, f := range original {
		want = append(want, f.Gesture)
	}
	assert.Equal(t, want, replayed)
	assert.Equal(t, []string{"ab", "bq", "drag"}, replayed)
}
