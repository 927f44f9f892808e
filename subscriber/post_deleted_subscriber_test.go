package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"like-service/events"
	"like-service/repository"
)

type fakeLikeRepository struct {
	repository.LikeRepository

	deleted   []uuid.UUID
	deleteErr error
}

func (f *fakeLikeRepository) DeletePostLikesData(_ context.Context, postID uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, postID)
	return nil
}

func TestProcessMessage_DeletesLikesData(t *testing.T) {
	repo := &fakeLikeRepository{}
	sub := NewPostDeletedSubscriber(nil, repo)

	postID := uuid.New()
	data, err := json.Marshal(events.PostDeletedEvent{
		PostID:    postID,
		AuthorID:  uuid.New(),
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	err = sub.processMessage(&nats.Msg{Data: data})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{postID}, repo.deleted)
}

func TestProcessMessage_MalformedPayload(t *testing.T) {
	repo := &fakeLikeRepository{}
	sub := NewPostDeletedSubscriber(nil, repo)

	err := sub.processMessage(&nats.Msg{Data: []byte("not json")})
	assert.ErrorIs(t, err, ErrMalformedEvent)
	assert.Empty(t, repo.deleted)
}

func TestProcessMessage_MissingPostID(t *testing.T) {
	repo := &fakeLikeRepository{}
	sub := NewPostDeletedSubscriber(nil, repo)

	err := sub.processMessage(&nats.Msg{Data: []byte(`{"author_id":"` + uuid.NewString() + `"}`)})
	assert.ErrorIs(t, err, ErrMalformedEvent)
	assert.Empty(t, repo.deleted)
}

func TestProcessMessage_RepositoryFailureIsRetryable(t *testing.T) {
	repo := &fakeLikeRepository{deleteErr: errors.New("store unreachable")}
	sub := NewPostDeletedSubscriber(nil, repo)

	data, err := json.Marshal(events.PostDeletedEvent{PostID: uuid.New()})
	require.NoError(t, err)

	err = sub.processMessage(&nats.Msg{Data: data})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedEvent)
}

func TestProcessMessage_IdempotentRedelivery(t *testing.T) {
	repo := &fakeLikeRepository{}
	sub := NewPostDeletedSubscriber(nil, repo)

	postID := uuid.New()
	data, err := json.Marshal(events.PostDeletedEvent{PostID: postID})
	require.NoError(t, err)

	require.NoError(t, sub.processMessage(&nats.Msg{Data: data}))
	require.NoError(t, sub.processMessage(&nats.Msg{Data: data}))

	assert.Equal(t, []uuid.UUID{postID, postID}, repo.deleted)
}
