// Package history records dispatched notification events to a SQLite
// database so interaction sessions can be inspected after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/pubsub"
)

// Schema is the interaction history schema.
const Schema = `
CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guid TEXT NOT NULL,
	plot TEXT NOT NULL,
	kind TEXT NOT NULL,
	x INTEGER NOT NULL DEFAULT 0,
	y INTEGER NOT NULL DEFAULT 0,
	key TEXT NOT NULL DEFAULT '',
	selected TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_interactions_plot_kind ON interactions(plot, kind);
`

// NewDB opens (creating if needed) the history database at path and applies
// the schema. The parent directory is created with owner-only permissions.
func NewDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}
	return db, nil
}

// Entry is one recorded interaction.
type Entry struct {
	GUID      string
	Plot      string
	Kind      events.Kind
	X, Y      int
	Key       string
	Selected  []int
	CreatedAt time.Time
}

// Recorder subscribes to the notification broker and persists every event.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a recorder writing to db.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Start consumes notifications from the broker until ctx is canceled.
// Insert failures are logged and skipped so a bad row never stalls the
// event stream.
func (r *Recorder) Start(ctx context.Context, broker *pubsub.Broker[events.Notification]) {
	ch := broker.Subscribe(ctx)
	go func() {
		for ev := range ch {
			if err := r.Record(ev.Payload); err != nil {
				log.ErrorErr(log.CatHistory, "Failed to record interaction", err, "kind", ev.Payload.Kind)
			}
		}
	}()
}

// Record inserts a single notification.
func (r *Recorder) Record(n events.Notification) error {
	_, err := r.db.Exec(
		`INSERT INTO interactions (guid, plot, kind, x, y, key, selected) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), n.Plot, string(n.Kind), n.X, n.Y, n.Key, encodeSelected(n.Selected),
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (r *Recorder) Recent(limit int) ([]Entry, error) {
	rows, err := r.db.Query(
		`SELECT guid, plot, kind, x, y, key, selected, created_at
		 FROM interactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind, selected string
		if err := rows.Scan(&e.GUID, &e.Plot, &kind, &e.X, &e.Y, &e.Key, &selected, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		e.Kind = events.Kind(kind)
		e.Selected = decodeSelected(selected)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByKind returns how many interactions of the given kind were recorded
// for the plot.
func (r *Recorder) CountByKind(plot string, kind events.Kind) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM interactions WHERE plot = ? AND kind = ?`,
		plot, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting interactions: %w", err)
	}
	return n, nil
}

func encodeSelected(sel []int) string {
	if len(sel) == 0 {
		return ""
	}
	parts := make([]string, len(sel))
	for i, s := range sel {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func decodeSelected(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
