package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku-backend/internal/session"
)

const (
	KindJoined = "joined"
	KindStep   = "step"
)

// Event is what one player's connection sends to the other's, possibly on
// another instance.
type Event struct {
	Kind   string        `json:"kind"`
	GameID string        `json:"game_id,omitempty"`
	Step   *session.Step `json:"step,omitempty"`
}

// Relay delivers events to players over Redis pub/sub, one channel per player.
type Relay struct {
	logger *slog.Logger
	client *redis.Client
}

func New(logger *slog.Logger, client *redis.Client) *Relay {
	return &Relay{
		logger: logger,
		client: client,
	}
}

func (that *Relay) Publish(ctx context.Context, playerID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, channel(playerID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe calls handle for every event sent to playerID, in publish order,
// until ctx is done or the returned subscription is closed.
func (that *Relay) Subscribe(ctx context.Context, playerID string, handle func(Event)) (*Subscription, error) {
	log := that.logger.With("method", "Subscribe", "playerID", playerID)

	pubsub := that.client.Subscribe(ctx, channel(playerID))

	// wait for the subscription to be confirmed so nothing published after return is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	sub := &Subscription{pubsub: pubsub, done: make(chan struct{})}

	go func() {
		defer close(sub.done)

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Error("failed to unmarshal event", "error", err)
					continue
				}

				handle(event)
			}
		}
	}()

	return sub, nil
}

type Subscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
}

// Close stops delivery and waits for the handler goroutine to exit.
func (that *Subscription) Close() error {
	err := that.pubsub.Close()
	<-that.done

	if err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}

	return nil
}

func channel(playerID string) string {
	return "player:" + playerID + ":events"
}
