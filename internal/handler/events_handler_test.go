package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtc-its/hmtc-portal/internal/schedule"
)

func TestScheduleEventsStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewScheduleHub(nil)
	go func() { _ = hub.Run(ctx) }()

	bus := schedule.NewBroadcaster()
	unsubscribe := bus.Subscribe(hub.Publish)
	defer unsubscribe()

	r := NewRouter(Routes{Events: NewEventsHandler(hub, nil, nil)})
	ts := httptest.NewServer(r)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events/schedule"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	prev := false
	bus.Publish(schedule.Event{Path: "/magang", Active: true, Previous: &prev, At: time.Now()})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev schedule.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "/magang", ev.Path)
	assert.True(t, ev.Active)
	require.NotNil(t, ev.Previous)
	assert.False(t, *ev.Previous)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduleHubStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewScheduleHub(nil)
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestScheduleStreamReleasedAfterHubStops(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewScheduleHub(nil)
	stopped := make(chan error, 1)
	go func() { stopped <- hub.Run(ctx) }()

	events := NewEventsHandler(hub, nil, nil)
	returned := make(chan struct{}, 2)
	r := gin.New()
	r.GET("/events/schedule", func(c *gin.Context) {
		events.Schedule(c)
		returned <- struct{}{}
	})
	ts := httptest.NewServer(r)
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events/schedule"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-stopped
	select {
	case <-hub.Done():
	default:
		t.Fatal("hub done channel not closed")
	}

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("handler still waiting on the stopped hub")
	}

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer late.Close()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("late connection was not released")
	}
	_ = late.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
}
