package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Feed is the change signal behind the live notification stream: one Redis
// pub/sub channel per user, published after every committed write to that
// user's notifications. Subscribers re-read the store on each signal, so the
// payload carries no data.
type Feed struct {
	rdb *redis.Client
}

func NewFeed(rdb *redis.Client) *Feed {
	return &Feed{rdb: rdb}
}

func (f *Feed) channel(userID uuid.UUID) string {
	return "notifications:feed:" + userID.String()
}

func (f *Feed) Publish(ctx context.Context, userID uuid.UUID) error {
	if f.rdb == nil {
		return nil
	}
	return f.rdb.Publish(ctx, f.channel(userID), "updated").Err()
}

func (f *Feed) Subscribe(ctx context.Context, userID uuid.UUID) *redis.PubSub {
	return f.rdb.Subscribe(ctx, f.channel(userID))
}

func (f *Feed) Available() bool {
	return f.rdb != nil
}
