package broadcast_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsanano/order-tracker/internal/broadcast"
	"fsanano/order-tracker/internal/model"
	"fsanano/order-tracker/internal/store"
)

func setupHub(t *testing.T, st *store.OrderStore) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := broadcast.NewHub(logger, []string{"*"}, st.List)
	st.OnMutation(hub.Publish)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) broadcast.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev broadcast.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestObserverReceivesSnapshotOnConnect(t *testing.T) {
	st := store.NewOrderStore()
	ts := setupHub(t, st)

	// Orders that exist before the observer connects.
	st.Upsert(model.Order{UserID: 2, Item: "Tea", Quantity: 1})
	st.Upsert(model.Order{UserID: 3, Item: "Latte", Quantity: 2})

	conn := dial(t, ts)
	ev := readEvent(t, conn)

	assert.Equal(t, broadcast.EventOrderUpdated, ev.Event)
	require.Len(t, ev.Orders, 2)
	assert.Equal(t, "Tea", ev.Orders[0].Item)
	assert.Equal(t, "Latte", ev.Orders[1].Item)
}

func TestObserverReceivesEmptySnapshotOnConnect(t *testing.T) {
	st := store.NewOrderStore()
	ts := setupHub(t, st)

	conn := dial(t, ts)
	ev := readEvent(t, conn)

	assert.Equal(t, broadcast.EventOrderUpdated, ev.Event)
	assert.NotNil(t, ev.Orders)
	assert.Empty(t, ev.Orders)
}

func TestMutationFansOutToAllObservers(t *testing.T) {
	st := store.NewOrderStore()
	ts := setupHub(t, st)

	first := dial(t, ts)
	second := dial(t, ts)
	readEvent(t, first)
	readEvent(t, second)

	st.Upsert(model.Order{UserID: 2, Item: "Tea", Quantity: 1})

	for _, conn := range []*websocket.Conn{first, second} {
		ev := readEvent(t, conn)
		assert.Equal(t, broadcast.EventOrderUpdated, ev.Event)
		require.Len(t, ev.Orders, 1)
		assert.Equal(t, 2, ev.Orders[0].UserID)
		assert.Equal(t, "Tea", ev.Orders[0].Item)
	}
}

func TestEveryMutationBroadcasts(t *testing.T) {
	st := store.NewOrderStore()
	ts := setupHub(t, st)

	conn := dial(t, ts)
	readEvent(t, conn)

	st.Upsert(model.Order{UserID: 2, Item: "Tea", Quantity: 1})
	st.DeleteOne(42) // no-op delete still broadcasts
	st.DeleteAll()

	lengths := []int{}
	for i := 0; i < 3; i++ {
		ev := readEvent(t, conn)
		lengths = append(lengths, len(ev.Orders))
	}
	assert.Equal(t, []int{1, 1, 0}, lengths)
}

func TestSlowObserverIsDropped(t *testing.T) {
	st := store.NewOrderStore()
	ts := setupHub(t, st)

	slow := dial(t, ts)
	readEvent(t, slow) // take the initial snapshot, then stop reading

	healthy := dial(t, ts)
	readEvent(t, healthy)

	// Large snapshots so the flood overruns the stalled observer's
	// socket buffering and fills its 8-slot send queue.
	const mutations = 32
	filler := strings.Repeat("x", 64*1024)

	// Drain the healthy observer while the flood is in flight so it
	// never falls behind itself.
	healthyDone := make(chan error, 1)
	go func() {
		for {
			healthy.SetReadDeadline(time.Now().Add(10 * time.Second))
			var ev broadcast.Event
			if err := healthy.ReadJSON(&ev); err != nil {
				healthyDone <- err
				return
			}
			if len(ev.Orders) == mutations {
				healthyDone <- nil
				return
			}
		}
	}()

	for i := 0; i < mutations; i++ {
		st.Upsert(model.Order{UserID: 1, Item: filler, Quantity: 1})
	}

	require.NoError(t, <-healthyDone, "healthy observer must keep receiving during the flood")

	// The hub closed the stalled observer's queue; once it resumes
	// reading it drains whatever was already in flight and then sees
	// the connection close instead of the remaining snapshots.
	received := 0
	var readErr error
	for received <= mutations {
		slow.SetReadDeadline(time.Now().Add(15 * time.Second))
		var ev broadcast.Event
		if readErr = slow.ReadJSON(&ev); readErr != nil {
			break
		}
		received++
	}
	require.Error(t, readErr, "expected the stalled observer to be dropped")
	assert.Less(t, received, mutations, "stalled observer should have missed snapshots")
}

func TestRejectsDisallowedOrigin(t *testing.T) {
	st := store.NewOrderStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := broadcast.NewHub(logger, []string{"http://localhost:3000"}, st.List)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
