package mailbox

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const processedPrefix = "mail:processed:"

// SeenStore marks mail Message-IDs as processed in Redis, so a crash between
// pipeline run and the IMAP Seen flag cannot double-book on the next poll.
type SeenStore struct {
	client *redis.Client
}

func NewSeenStore(client *redis.Client) *SeenStore {
	return &SeenStore{client: client}
}

// MarkProcessed records the Message-ID and reports whether it was already
// present. Keys are kept without TTL.
func (s *SeenStore) MarkProcessed(ctx context.Context, messageID string) (alreadySeen bool, err error) {
	if messageID == "" {
		return false, nil
	}
	set, err := s.client.SetNX(ctx, processedPrefix+messageID, "1", 0).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}
