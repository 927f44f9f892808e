package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"like-service/events"
	"like-service/metrics"
	natsClient "like-service/nats"
	"like-service/repository"
)

// ErrMalformedEvent marks a message that can never be processed. Such
// messages are terminated rather than left for redelivery.
var ErrMalformedEvent = errors.New("malformed post deleted event")

const (
	fetchBatchSize = 16
	processTimeout = 30 * time.Second
)

// PostDeletedSubscriber consumes post deletion events and cascades the
// cleanup of all like data belonging to the deleted post. Processing is
// idempotent, so at-least-once redelivery needs no deduplication state.
type PostDeletedSubscriber struct {
	natsClient *natsClient.Client
	likeRepo   repository.LikeRepository

	sub    *nats.Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPostDeletedSubscriber(natsClient *natsClient.Client, likeRepo repository.LikeRepository) *PostDeletedSubscriber {
	return &PostDeletedSubscriber{
		natsClient: natsClient,
		likeRepo:   likeRepo,
	}
}

func (s *PostDeletedSubscriber) Start() error {
	err := s.natsClient.CreateStream(events.StreamPosts, []string{events.SubjectPostsAll})
	if err != nil {
		log.Printf("Stream might already exist or error creating: %v", err)
	}

	sub, err := s.natsClient.PullSubscribeDurable(
		events.SubjectPostDeleted,
		"like-service-posts-deleted",
	)
	if err != nil {
		return err
	}
	s.sub = sub

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.consume(ctx)

	log.Println("Post deleted subscriber started successfully")
	return nil
}

// consume pulls batches of messages and processes them sequentially
// until the context is cancelled.
func (s *PostDeletedSubscriber) consume(ctx context.Context) {
	defer close(s.done)

	for {
		if ctx.Err() != nil {
			return
		}

		msgs, err := s.sub.Fetch(fetchBatchSize, nats.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}

			log.Printf("Error fetching post deleted events: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, msg := range msgs {
			s.handleMsg(msg)
		}
	}
}

func (s *PostDeletedSubscriber) handleMsg(msg *nats.Msg) {
	err := s.processMessage(msg)
	switch {
	case err == nil:
		if err := msg.Ack(); err != nil {
			log.Printf("Error acking post deleted event: %v", err)
		}
	case errors.Is(err, ErrMalformedEvent):
		log.Printf("Dropping post deleted event on %s: %v", msg.Subject, err)
		if err := msg.Term(); err != nil {
			log.Printf("Error terminating malformed event: %v", err)
		}
	default:
		log.Printf("Error processing post deleted event on %s: %v", msg.Subject, err)
		if err := msg.Nak(); err != nil {
			log.Printf("Error nacking post deleted event: %v", err)
		}
	}
}

// processMessage decodes one event and runs the cascade deletion. The
// deletion runs on its own timeout so an in-flight message can finish
// after the subscriber has stopped fetching.
func (s *PostDeletedSubscriber) processMessage(msg *nats.Msg) error {
	var event events.PostDeletedEvent
	if err := natsClient.DecodeEvent(msg, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if event.PostID == uuid.Nil {
		return fmt.Errorf("%w: missing post id", ErrMalformedEvent)
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	if err := s.likeRepo.DeletePostLikesData(ctx, event.PostID); err != nil {
		return fmt.Errorf("failed to delete likes data for post %s: %w", event.PostID, err)
	}

	metrics.CascadeDeletionsTotal.Inc()
	log.Printf("Cleaned up likes for deleted post %s", event.PostID)
	return nil
}

// Stop cancels fetching, waits for in-flight messages to finish and
// drains the subscription so no message is left half-acknowledged.
func (s *PostDeletedSubscriber) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}

	if s.sub != nil {
		if err := s.sub.Drain(); err != nil {
			return fmt.Errorf("failed to drain subscription: %w", err)
		}
	}

	return nil
}
