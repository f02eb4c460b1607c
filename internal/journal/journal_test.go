package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interact/internal/event"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesDirectory(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "sub", "nested", "journal.db"))
	require.NoError(t, err)
	assert.NoError(t, j.Close())
}

func TestCloseNilDB(t *testing.T) {
	j := &Journal{}
	assert.NoError(t, j.Close())
}

func TestSessionLifecycle(t *testing.T) {
	j := openTest(t)
	clock := time.Unix(1700000000, 0)
	j.now = func() time.Time { return clock }

	id, err := j.BeginSession("script:draw.txt")
	require.NoError(t, err)

	sess, err := j.Session(id)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "script:draw.txt", sess.Source)
	assert.True(t, sess.StartedAt.Equal(clock))
	assert.Nil(t, sess.EndedAt)

	clock = clock.Add(time.Minute)
	require.NoError(t, j.EndSession(id))

	sess, err = j.Session(id)
	require.NoError(t, err)
	require.NotNil(t, sess.EndedAt)
	assert.True(t, sess.EndedAt.Equal(clock))

	assert.ErrorIs(t, j.EndSession(id), ErrUnknownSession)
}

func TestSessionNotFound(t *testing.T) {
	j := openTest(t)

	sess, err := j.Session(42)
	require.NoError(t, err)
	assert.Nil(t, sess)

	assert.ErrorIs(t, j.EndSession(42), ErrUnknownSession)
}

func TestRecordAndReadEvents(t *testing.T) {
	j := openTest(t)
	id, err := j.BeginSession("test")
	require.NoError(t, err)

	recorded := []Entry{
		{Seq: 0, Event: event.Key{Code: 108, Phase: event.Down}},
		{Seq: 1, Event: event.MouseMove{}, State: event.State{Pointer: event.Point{X: 10, Y: 20}}},
		{Seq: 2, Event: event.MouseScroll{}, State: event.State{Pointer: event.Point{X: 10, Y: 20}, Scroll: event.Point{Y: -3}}},
		{Seq: 3, Event: event.MouseButton{Button: event.Right, Phase: event.Up}},
		{Seq: 4, Event: event.Key{Code: 108, Phase: event.Up}},
	}
	for _, e := range recorded {
		require.NoError(t, j.RecordEvent(id, e.Seq, e.Event, e.State))
	}

	entries, err := j.Events(id)
	require.NoError(t, err)
	require.Len(t, entries, len(recorded))
	for i, e := range entries {
		assert.Equal(t, id, e.SessionID)
		assert.Equal(t, recorded[i].Seq, e.Seq)
		assert.True(t, event.Equal(recorded[i].Event, e.Event), "entry %d: %v", i, e.Event)
		assert.Equal(t, recorded[i].State, e.State)
		assert.NotZero(t, e.TimestampNs)
	}
}

func TestRecordDuplicateSeq(t *testing.T) {
	j := openTest(t)
	id, err := j.BeginSession("test")
	require.NoError(t, err)

	require.NoError(t, j.RecordEvent(id, 0, event.MouseMove{}, event.State{}))
	assert.Error(t, j.RecordEvent(id, 0, event.MouseMove{}, event.State{}))
}

func TestRecordIntoEndedSession(t *testing.T) {
	j := openTest(t)
	id, err := j.BeginSession("test")
	require.NoError(t, err)
	require.NoError(t, j.EndSession(id))

	assert.ErrorIs(t, j.RecordEvent(id, 0, event.MouseMove{}, event.State{}), ErrUnknownSession)
	assert.ErrorIs(t, j.RecordFiring(id, 0, "quit"), ErrUnknownSession)
	assert.ErrorIs(t, j.RecordEvent(99, 0, event.MouseMove{}, event.State{}), ErrUnknownSession)
}

func TestFirings(t *testing.T) {
	j := openTest(t)
	id, err := j.BeginSession("test")
	require.NoError(t, err)

	require.NoError(t, j.RecordEvent(id, 0, event.Key{Code: 113, Phase: event.Down}, event.State{}))
	require.NoError(t, j.RecordFiring(id, 0, "quit"))
	require.NoError(t, j.RecordFiring(id, 0, "any_key"))
	require.NoError(t, j.RecordEvent(id, 1, event.Key{Code: 113, Phase: event.Down}, event.State{}))
	require.NoError(t, j.RecordFiring(id, 1, "quit"))

	firings, err := j.Firings(id)
	require.NoError(t, err)
	require.Len(t, firings, 3)
	assert.Equal(t, "quit", firings[0].Gesture)
	assert.Equal(t, "any_key", firings[1].Gesture)
	assert.Equal(t, int64(1), firings[2].Seq)

	counts, err := j.GestureCounts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"quit": 2, "any_key": 1}, counts)
}

func TestSessionsListing(t *testing.T) {
	j := openTest(t)

	first, err := j.BeginSession("first")
	require.NoError(t, err)
	second, err := j.BeginSession("second")
	require.NoError(t, err)

	require.NoError(t, j.RecordEvent(second, 0, event.MouseMove{}, event.State{}))
	require.NoError(t, j.RecordEvent(second, 1, event.MouseMove{}, event.State{}))
	require.NoError(t, j.RecordFiring(second, 1, "drag"))

	sessions, err := j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, first, sessions[0].ID)
	assert.Zero(t, sessions[0].EventCount)
	assert.Equal(t, second, sessions[1].ID)
	assert.Equal(t, int64(2), sessions[1].EventCount)
	assert.Equal(t, int64(1), sessions[1].FiringCount)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	id, err := j.BeginSession("persisted")
	require.NoError(t, err)
	require.NoError(t, j.RecordEvent(id, 0, event.Key{Code: 97, Phase: event.Down}, event.State{}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Events(id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, event.Key{Code: 97, Phase: event.Down}, entries[0].Event)
}
