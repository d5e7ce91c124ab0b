package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/session"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func TestRelay_PublishSubscribe(t *testing.T) {
	ctx, st := suite.New(t)

	relay := New(st.Logger, st.Storage)
	publisher := New(st.Logger, st.Client())
	received := make(chan Event, 4)

	// Given: a subscription for player p2
	sub, err := relay.Subscribe(ctx, "p2", func(event Event) {
		received <- event
	})
	require.NoError(t, err)

	// When: another connection publishes two events for p2 and one for somebody else
	step := session.Step{Side: gomoku.First, Cell: 312, Status: gomoku.Status{State: gomoku.Ongoing}, Valid: true}
	require.NoError(t, publisher.Publish(ctx, "p2", Event{Kind: KindJoined, GameID: "g1"}))
	require.NoError(t, publisher.Publish(ctx, "p3", Event{Kind: KindJoined, GameID: "g2"}))
	require.NoError(t, publisher.Publish(ctx, "p2", Event{Kind: KindStep, Step: &step}))

	// Then: p2 receives its own events in order
	first := waitEvent(t, received)
	assert.Equal(t, Event{Kind: KindJoined, GameID: "g1"}, first)

	second := waitEvent(t, received)
	assert.Equal(t, KindStep, second.Kind)
	require.NotNil(t, second.Step)
	assert.Equal(t, step, *second.Step)

	require.NoError(t, sub.Close())
	assert.Empty(t, received)
}

func TestRelay_SubscribeStopsOnCancel(t *testing.T) {
	ctx, st := suite.New(t)

	relay := New(st.Logger, st.Storage)
	subCtx, cancel := context.WithCancel(ctx)

	sub, err := relay.Subscribe(subCtx, "p1", func(Event) {})
	require.NoError(t, err)

	cancel()

	select {
	case <-sub.done:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}
