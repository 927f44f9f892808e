package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultScanPageSize = 500

// SetScanner walks the members of a Redis set in fixed-size pages using
// SSCAN cursors, so a very large set never requires a single unbounded
// read and other operations can interleave between pages.
type SetScanner struct {
	client   redis.UniversalClient
	pageSize int64
}

func NewSetScanner(client redis.UniversalClient, pageSize int64) *SetScanner {
	if pageSize <= 0 {
		pageSize = defaultScanPageSize
	}

	return &SetScanner{
		client:   client,
		pageSize: pageSize,
	}
}

// Scan invokes fn for each page of members until the cursor returns to
// zero. Members present for the whole scan are yielded at least once;
// members added or removed mid-scan may or may not appear. A scan cannot
// be resumed, a fresh call starts over.
func (s *SetScanner) Scan(ctx context.Context, key string, fn func(members []string) error) error {
	var cursor uint64

	for {
		members, next, err := s.client.SScan(ctx, key, cursor, "", s.pageSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan set %s: %w", key, err)
		}

		if len(members) > 0 {
			if err := fn(members); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
