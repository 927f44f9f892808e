package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type LikeRepository interface {
	LikePost(ctx context.Context, userID, postID uuid.UUID) error
	UnlikePost(ctx context.Context, userID, postID uuid.UUID) error
	IsPostLikedByUser(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	GetLikesCount(ctx context.Context, postID uuid.UUID) (int64, error)
	GetUserLikedPosts(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]uuid.UUID, error)
	DeletePostLikesData(ctx context.Context, postID uuid.UUID) error
}

const (
	// deleteBatchSize bounds the number of ZREM commands pipelined per
	// round-trip during cascade deletion.
	deleteBatchSize = 1000

	scanPageSize = 500
)

type likeRepository struct {
	client  redis.UniversalClient
	scanner *SetScanner
	now     func() time.Time
}

func NewLikeRepository(client redis.UniversalClient) LikeRepository {
	return &likeRepository{
		client:  client,
		scanner: NewSetScanner(client, scanPageSize),
		now:     time.Now,
	}
}

func userLikedPostsKey(userID string) string {
	return fmt.Sprintf("user:%s:liked_posts", userID)
}

func postLikedUsersKey(postID string) string {
	return fmt.Sprintf("post:%s:liked_users", postID)
}

func postLikesCountKey(postID string) string {
	return fmt.Sprintf("post:%s:likes_count", postID)
}

// likeScript records a like across all three records in one atomic step.
// The membership check runs server-side, so two concurrent likes of the
// same (user, post) pair can never double-increment the counter.
//
// KEYS: user liked-posts zset, post likers set, post likes counter.
// ARGV: post id, like timestamp (unix milliseconds), user id.
var likeScript = redis.NewScript(`
if redis.call('ZSCORE', KEYS[1], ARGV[1]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
redis.call('SADD', KEYS[2], ARGV[3])
redis.call('INCR', KEYS[3])
return 1
`)

// unlikeScript is the symmetric inverse of likeScript. The counter is
// clamped at zero; -1 is returned when a decrement would have gone
// negative so the caller can log the inconsistency.
//
// KEYS: user liked-posts zset, post likers set, post likes counter.
// ARGV: post id, user id.
var unlikeScript = redis.NewScript(`
if not redis.call('ZSCORE', KEYS[1], ARGV[1]) then
	return 0
end
redis.call('ZREM', KEYS[1], ARGV[1])
redis.call('SREM', KEYS[2], ARGV[2])
local count = redis.call('DECR', KEYS[3])
if count < 0 then
	redis.call('SET', KEYS[3], '0')
	return -1
end
return 1
`)

// LikePost records a like for the given (user, post) pair. Liking an
// already-liked post is a no-op.
func (r *likeRepository) LikePost(ctx context.Context, userID, postID uuid.UUID) error {
	keys := []string{
		userLikedPostsKey(userID.String()),
		postLikedUsersKey(postID.String()),
		postLikesCountKey(postID.String()),
	}

	err := likeScript.Run(ctx, r.client, keys,
		postID.String(), r.now().UnixMilli(), userID.String(),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}

	return nil
}

// UnlikePost removes a like for the given (user, post) pair. Unliking a
// post that was never liked is a no-op.
func (r *likeRepository) UnlikePost(ctx context.Context, userID, postID uuid.UUID) error {
	keys := []string{
		userLikedPostsKey(userID.String()),
		postLikedUsersKey(postID.String()),
		postLikesCountKey(postID.String()),
	}

	res, err := unlikeScript.Run(ctx, r.client, keys,
		postID.String(), userID.String(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}

	if res == -1 {
		log.Printf("Likes count for post %s went negative on unlike, clamped to zero", postID)
	}

	return nil
}

// IsPostLikedByUser checks if a user currently likes a specific post.
func (r *likeRepository) IsPostLikedByUser(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	err := r.client.ZScore(ctx, userLikedPostsKey(userID.String()), postID.String()).Err()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to check like status: %w", err)
	}

	return true, nil
}

// GetLikesCount returns the cached like count for a post. A missing
// counter reads as zero.
func (r *likeRepository) GetLikesCount(ctx context.Context, postID uuid.UUID) (int64, error) {
	count, err := r.client.Get(ctx, postLikesCountKey(postID.String())).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get likes count: %w", err)
	}

	if count < 0 {
		log.Printf("Likes count for post %s is negative (%d), reading as zero", postID, count)
		return 0, nil
	}

	return count, nil
}

// GetUserLikedPosts returns up to limit post ids liked by the user,
// most recently liked first, skipping offset entries.
func (r *likeRepository) GetUserLikedPosts(ctx context.Context, userID uuid.UUID, limit, offset int64) ([]uuid.UUID, error) {
	if limit <= 0 || offset < 0 {
		return []uuid.UUID{}, nil
	}

	members, err := r.client.ZRevRange(ctx, userLikedPostsKey(userID.String()), offset, offset+limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get liked posts: %w", err)
	}

	postIDs := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		postID, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("failed to parse liked post id %q: %w", member, err)
		}
		postIDs = append(postIDs, postID)
	}

	return postIDs, nil
}

// DeletePostLikesData removes every trace of a deleted post from the like
// records: the post id is purged from each liker's liked-posts zset in
// bounded pipelined batches, then the likers set and the counter are
// dropped. Every step is idempotent, so the whole operation is safe to
// re-run after a partial failure.
func (r *likeRepository) DeletePostLikesData(ctx context.Context, postID uuid.UUID) error {
	likersKey := postLikedUsersKey(postID.String())
	member := postID.String()

	batch := make([]string, 0, deleteBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		pipe := r.client.Pipeline()
		for _, likerID := range batch {
			pipe.ZRem(ctx, userLikedPostsKey(likerID), member)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to flush liked-posts removals: %w", err)
		}

		batch = batch[:0]
		return nil
	}

	err := r.scanner.Scan(ctx, likersKey, func(likerIDs []string) error {
		for _, likerID := range likerIDs {
			batch = append(batch, likerID)
			if len(batch) >= deleteBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan post likers: %w", err)
	}

	if err := flush(); err != nil {
		return err
	}

	err = r.client.Del(ctx, likersKey, postLikesCountKey(postID.String())).Err()
	if err != nil {
		return fmt.Errorf("failed to delete post like keys: %w", err)
	}

	return nil
}
