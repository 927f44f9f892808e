package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T, pageSize int64) (*SetScanner, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSetScanner(client, pageSize), mr
}

func TestSetScanner_CoversLargeSet(t *testing.T) {
	scanner, mr := newTestScanner(t, 100)

	const members = 1200
	want := make(map[string]bool, members)
	for i := 0; i < members; i++ {
		member := fmt.Sprintf("member-%04d", i)
		want[member] = true
		_, err := mr.SetAdd("large-set", member)
		require.NoError(t, err)
	}

	seen := make(map[string]bool, members)
	pages := 0
	err := scanner.Scan(context.Background(), "large-set", func(page []string) error {
		pages++
		for _, member := range page {
			seen[member] = true
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, want, seen)
	assert.Greater(t, pages, 0)
}

func TestSetScanner_MissingKey(t *testing.T) {
	scanner, _ := newTestScanner(t, 100)

	called := false
	err := scanner.Scan(context.Background(), "no-such-set", func(page []string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestSetScanner_CallbackErrorStopsScan(t *testing.T) {
	scanner, mr := newTestScanner(t, 10)

	for i := 0; i < 50; i++ {
		_, err := mr.SetAdd("some-set", fmt.Sprintf("member-%d", i))
		require.NoError(t, err)
	}

	wantErr := errors.New("stop")
	err := scanner.Scan(context.Background(), "some-set", func(page []string) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
