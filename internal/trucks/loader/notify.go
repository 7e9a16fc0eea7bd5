package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"foodtruck_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// ReloadMessage is published on the reload channel after the stored
// registry changes.
type ReloadMessage struct {
	ImportID string    `json:"importId,omitempty"`
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	At       time.Time `json:"at"`
}

// Notifier tells every API instance to reload.
type Notifier struct {
	client  redis.UniversalClient
	channel string
}

func NewNotifier(client redis.UniversalClient, channel string) *Notifier {
	return &Notifier{client: client, channel: channel}
}

// Publish returns the number of subscribers that received the message.
func (n *Notifier) Publish(ctx context.Context, msg ReloadMessage) (int64, error) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, err
	}
	receivers, err := n.client.Publish(ctx, n.channel, data).Result()
	if err != nil {
		return 0, fmt.Errorf("publish reload on %s: %w", n.channel, err)
	}
	return receivers, nil
}

// Reloadable is what a Subscriber triggers; *Reloader implements it.
type Reloadable interface {
	Reload(ctx context.Context) (Result, error)
}

// Subscriber reloads the registry whenever a message arrives on the
// reload channel.
type Subscriber struct {
	client   redis.UniversalClient
	channel  string
	reloader Reloadable
	log      *logger.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

func NewSubscriber(client redis.UniversalClient, channel string, reloader Reloadable, log *logger.Logger) *Subscriber {
	return &Subscriber{
		client:   client,
		channel:  channel,
		reloader: reloader,
		log:      log,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed by Redis.
func (s *Subscriber) Ready() <-chan struct{} {
	return s.ready
}

// Run blocks until ctx is done or the subscription fails.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.readyOnce.Do(func() { close(s.ready) })
	s.log.Info("listening for registry reloads", "channel", s.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg *redis.Message) {
	var m ReloadMessage
	if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
		// Any message still means "reload"; the body is informational.
		s.log.Warn("unreadable reload message", "channel", msg.Channel, "error", err)
	}

	res, err := s.reloader.Reload(ctx)
	if err != nil {
		return
	}
	s.log.Debug("registry reloaded on notification", "import_id", m.ImportID, "records", res.Records)
}
