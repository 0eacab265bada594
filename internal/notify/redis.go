package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"translator/internal/models"
)

// redisPublisher is the subset of redis.Cmdable the observer uses.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisObserver forwards events to a Redis pub/sub channel. Notify only
// enqueues; a background goroutine performs the network call.
type RedisObserver struct {
	client  redisPublisher
	channel string
	timeout time.Duration

	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewRedisObserver starts an observer publishing to channel. buffer bounds
// the number of events waiting to be published.
func NewRedisObserver(client redisPublisher, channel string, buffer int) *RedisObserver {
	if buffer <= 0 {
		buffer = 64
	}
	o := &RedisObserver{
		client:  client,
		channel: channel,
		timeout: 5 * time.Second,
		queue:   make(chan []byte, buffer),
		done:    make(chan struct{}),
	}
	o.wg.Add(1)
	go o.run()
	return o
}

// NewRedisClient builds a go-redis client from configuration.
func NewRedisClient(cfg models.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func (o *RedisObserver) Notify(_ context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	select {
	case <-o.done:
		return ErrObserverClosed
	default:
	}

	select {
	case o.queue <- payload:
		return nil
	default:
		return ErrObserverBusy
	}
}

// Close stops the publishing goroutine. Events still queued are dropped.
func (o *RedisObserver) Close() error {
	o.once.Do(func() {
		close(o.done)
	})
	o.wg.Wait()
	return nil
}

func (o *RedisObserver) run() {
	defer o.wg.Done()
	for {
		select {
		case <-o.done:
			return
		case payload := <-o.queue:
			o.publish(payload)
		}
	}
}

func (o *RedisObserver) publish(payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := o.client.Publish(ctx, o.channel, payload).Err(); err != nil {
		slog.Warn("Failed to publish event to Redis", "channel", o.channel, "error", err)
	}
}
