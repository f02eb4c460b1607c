package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"interact/internal/event"
)

// Schema for the session journal.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    source          TEXT NOT NULL,
    started_ns      INTEGER NOT NULL,
    ended_ns        INTEGER
);

CREATE TABLE IF NOT EXISTS events (
    session_id      INTEGER NOT NULL REFERENCES sessions(id),
    seq             INTEGER NOT NULL,
    timestamp_ns    INTEGER NOT NULL,
    kind            TEXT NOT NULL,
    code            INTEGER,
    button          TEXT,
    phase           TEXT,
    pointer_x       REAL NOT NULL,
    pointer_y       REAL NOT NULL,
    scroll_x        REAL NOT NULL,
    scroll_y        REAL NOT NULL,
    PRIMARY KEY (session_id, seq)
);

CREATE TABLE IF NOT EXISTS firings (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id      INTEGER NOT NULL REFERENCES sessions(id),
    seq             INTEGER NOT NULL,
    gesture         TEXT NOT NULL,
    timestamp_ns    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_firings_session ON firings(session_id, seq);
CREATE INDEX IF NOT EXISTS idx_firings_gesture ON firings(gesture);
`

// ErrUnknownSession is returned when recording into a session that does not
// exist or has ended.
var ErrUnknownSession = errors.New("journal: unknown or ended session")

// Journal is the SQLite session store.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// BeginSession starts a session and returns its ID. source describes what
// produced the input, such as a script path or "gui".
func (j *Journal) BeginSession(source string) (int64, error) {
	result, err := j.db.Exec(
		`INSERT INTO sessions (source, started_ns) VALUES (?, ?)`,
		source, j.now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// EndSession marks a session as ended. Ending it twice is an error.
func (j *Journal) EndSession(id int64) error {
	result, err := j.db.Exec(
		`UPDATE sessions SET ended_ns = ? WHERE id = ? AND ended_ns IS NULL`,
		j.now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return requireRow(result, id)
}

// RecordEvent stores ev, dispatched under s, at position seq.
func (j *Journal) RecordEvent(sessionID, seq int64, ev event.Event, s event.State) error {
	if err := j.requireOpen(sessionID); err != nil {
		return err
	}

	var code sql.NullInt64
	var button, phase sql.NullString
	switch e := ev.(type) {
	case event.Key:
		code = sql.NullInt64{Int64: int64(e.Code), Valid: true}
		phase = sql.NullString{String: e.Phase.String(), Valid: true}
	case event.MouseButton:
		button = sql.NullString{String: e.Button.String(), Valid: true}
		phase = sql.NullString{String: e.Phase.String(), Valid: true}
	case event.MouseMove, event.MouseScroll:
	default:
		return fmt.Errorf("record event: unsupported event %T", ev)
	}

	_, err := j.db.Exec(`
		INSERT INTO events (session_id, seq, timestamp_ns, kind, code, button, phase, pointer_x, pointer_y, scroll_x, scroll_y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, seq, j.now().UnixNano(), ev.Kind().String(), code, button, phase,
		s.Pointer.X, s.Pointer.Y, s.Scroll.X, s.Scroll.Y,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecordFiring stores the completion of gesture caused by event seq.
func (j *Journal) RecordFiring(sessionID, seq int64, gesture string) error {
	if err := j.requireOpen(sessionID); err != nil {
		return err
	}

	_, err := j.db.Exec(
		`INSERT INTO firings (session_id, seq, gesture, timestamp_ns) VALUES (?, ?, ?, ?)`,
		sessionID, seq, gesture, j.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert firing: %w", err)
	}
	return nil
}

// Session retrieves a session by ID. It returns nil if there is none.
func (j *Journal) Session(id int64) (*Session, error) {
	row := j.db.QueryRow(sessionQuery+` WHERE s.id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Sessions lists all sessions, oldest first.
func (j *Journal) Sessions() ([]Session, error) {
	rows, err := j.db.Query(sessionQuery + ` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Events returns the recorded events of a session in dispatch order.
func (j *Journal) Events(sessionID int64) ([]Entry, error) {
	rows, err := j.db.Query(`
		SELECT seq, timestamp_ns, kind, code, button, phase, pointer_x, pointer_y, scroll_x, scroll_y
		FROM events WHERE session_id = ? ORDER BY seq`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{SessionID: sessionID}
		var kind string
		var code sql.NullInt64
		var button, phase sql.NullString

		if err := rows.Scan(&e.Seq, &e.TimestampNs, &kind, &code, &button, &phase,
			&e.State.Pointer.X, &e.State.Pointer.Y, &e.State.Scroll.X, &e.State.Scroll.Y); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		ev, err := decodeEvent(kind, code, button, phase)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Seq, err)
		}
		e.Event = ev
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

// Firings returns the recorded completions of a session in the order they
// happened.
func (j *Journal) Firings(sessionID int64) ([]Firing, error) {
	rows, err := j.db.Query(`
		SELECT seq, gesture, timestamp_ns
		FROM firings WHERE session_id = ? ORDER BY seq, id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query firings: %w", err)
	}
	defer rows.Close()

	var firings []Firing
	for rows.Next() {
		f := Firing{SessionID: sessionID}
		if err := rows.Scan(&f.Seq, &f.Gesture, &f.TimestampNs); err != nil {
			return nil, fmt.Errorf("scan firing: %w", err)
		}
		firings = append(firings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firings: %w", err)
	}
	return firings, nil
}

// GestureCounts returns how often each gesture fired across all sessions.
func (j *Journal) GestureCounts() (map[string]int64, error) {
	rows, err := j.db.Query(`SELECT gesture, COUNT(*) FROM firings GROUP BY gesture`)
	if err != nil {
		return nil, fmt.Errorf("query gesture counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan gesture count: %w", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gesture counts: %w", err)
	}
	return counts, nil
}

const sessionQuery = `
	SELECT s.id, s.source, s.started_ns, s.ended_ns,
	       (SELECT COUNT(*) FROM events e WHERE e.session_id = s.id),
	       (SELECT COUNT(*) FROM firings f WHERE f.session_id = s.id)
	FROM sessions s`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var startedNs int64
	var endedNs sql.NullInt64

	if err := row.Scan(&sess.ID, &sess.Source, &startedNs, &endedNs, &sess.EventCount, &sess.FiringCount); err != nil {
		return nil, err
	}
	sess.StartedAt = time.Unix(0, startedNs)
	if endedNs.Valid {
		ended := time.Unix(0, endedNs.Int64)
		sess.EndedAt = &ended
	}
	return &sess, nil
}

func (j *Journal) requireOpen(sessionID int64) error {
	var open bool
	err := j.db.QueryRow(
		`SELECT ended_ns IS NULL FROM sessions WHERE id = ?`, sessionID,
	).Scan(&open)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !open) {
		return fmt.Errorf("%w: %d", ErrUnknownSession, sessionID)
	}
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	return nil
}

func requireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownSession, id)
	}
	return nil
}

func decodeEvent(kind string, code sql.NullInt64, button, phase sql.NullString) (event.Event, error) {
	switch kind {
	case event.KindKey.String():
		if !code.Valid || !phase.Valid {
			return nil, fmt.Errorf("key event without code or phase")
		}
		p, err := event.ParsePhase(phase.String)
		if err != nil {
			return nil, err
		}
		return event.Key{Code: int(code.Int64), Phase: p}, nil
	case event.KindMouseButton.String():
		if !button.Valid || !phase.Valid {
			return nil, fmt.Errorf("button event without button or phase")
		}
		b, err := event.ParseButton(button.String)
		if err != nil {
			return nil, err
		}
		p, err := event.ParsePhase(phase.String)
		if err != nil {
			return nil, err
		}
		return event.MouseButton{Button: b, Phase: p}, nil
	case event.KindMouseMove.String():
		return event.MouseMove{}, nil
	case event.KindMouseScroll.String():
		return event.MouseScroll{}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}
