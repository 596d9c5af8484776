package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/history"
	"github.com/plotline-dev/plotline/internal/pubsub"
	"github.com/plotline-dev/plotline/internal/testutil"
)

func TestNewDB_CreatesSchemaAndParentDirs(t *testing.T) {
	path := t.TempDir() + "/nested/history.db"

	db, err := history.NewDB(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`INSERT INTO interactions (guid, plot, kind) VALUES ('g', 'plot-1', 'tap')`)
	require.NoError(t, err)
}

func TestRecorder_RecordAndRecent(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := history.NewRecorder(db)

	require.NoError(t, rec.Record(events.Notification{
		Kind: events.Tap, X: 4, Y: 7, Plot: "plot-1",
	}))
	require.NoError(t, rec.Record(events.Notification{
		Kind: events.KeyUp, Key: "left", Plot: "plot-1",
	}))
	require.NoError(t, rec.Record(events.Notification{
		Kind: events.SelectionChange, Plot: "plot-1", Selected: []int{0, 2},
	}))

	entries, err := rec.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	require.Equal(t, events.SelectionChange, entries[0].Kind)
	require.Equal(t, []int{0, 2}, entries[0].Selected)
	require.Equal(t, events.KeyUp, entries[1].Kind)
	require.Equal(t, "left", entries[1].Key)
	require.Equal(t, events.Tap, entries[2].Kind)
	require.Equal(t, 4, entries[2].X)
	require.Equal(t, 7, entries[2].Y)
	require.NotEmpty(t, entries[2].GUID)
}

func TestRecorder_CountByKind(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := history.NewRecorder(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, rec.Record(events.Notification{Kind: events.Pan, Plot: "plot-1"}))
	}
	require.NoError(t, rec.Record(events.Notification{Kind: events.Pan, Plot: "plot-2"}))

	n, err := rec.CountByKind("plot-1", events.Pan)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = rec.CountByKind("plot-1", events.Tap)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestRecorder_StartConsumesBroker(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := history.NewRecorder(db)

	broker := pubsub.NewBroker[events.Notification]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx, broker)

	broker.Publish(pubsub.Topic(events.Tap), "plot-1", events.Notification{
		Kind: events.Tap, X: 1, Y: 2, Plot: "plot-1",
	})

	require.Eventually(t, func() bool {
		n, err := rec.CountByKind("plot-1", events.Tap)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}
