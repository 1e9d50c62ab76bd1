package memory

import (
	"context"
	"sync"
	"testing"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayIDsAreStrictlyIncreasing(t *testing.T) {
	repo := NewRelayMessageRepository()
	ctx := context.Background()

	var last int64
	for i := 0; i < 20; i++ {
		msg := &entity.RelayMessage{SessionID: "s1", Role: constant.ChatRoleUser, Content: "m"}
		require.NoError(t, repo.Append(ctx, msg))
		assert.Greater(t, msg.ID, last)
		last = msg.ID
	}
}

func TestRelayIDsGlobalAcrossSessions(t *testing.T) {
	repo := NewRelayMessageRepository()
	ctx := context.Background()

	a := &entity.RelayMessage{SessionID: "a", Role: constant.ChatRoleUser, Content: "1"}
	b := &entity.RelayMessage{SessionID: "b", Role: constant.ChatRoleUser, Content: "2"}
	c := &entity.RelayMessage{SessionID: "a", Role: constant.ChatRoleAgent, Content: "3"}
	require.NoError(t, repo.Append(ctx, a))
	require.NoError(t, repo.Append(ctx, b))
	require.NoError(t, repo.Append(ctx, c))

	// The counter spans sessions, so a's second message skips b's id.
	assert.Equal(t, a.ID+2, c.ID)
}

func TestFindBySessionSince(t *testing.T) {
	repo := NewRelayMessageRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, &entity.RelayMessage{SessionID: "s1", Role: constant.ChatRoleUser, Content: "m"}))
	}
	require.NoError(t, repo.Append(ctx, &entity.RelayMessage{SessionID: "other", Role: constant.ChatRoleUser, Content: "x"}))

	msgs, err := repo.FindBySessionSince(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, msg := range msgs {
		assert.Greater(t, msg.ID, int64(2))
		assert.Equal(t, "s1", msg.SessionID)
		if i > 0 {
			assert.Greater(t, msg.ID, msgs[i-1].ID)
		}
	}

	// Idempotent re-read.
	again, err := repo.FindBySessionSince(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, msgs, again)
}

func TestConcurrentAppendsNeverShareIDs(t *testing.T) {
	repo := NewRelayMessageRepository()
	ctx := context.Background()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				msg := &entity.RelayMessage{SessionID: "s1", Role: constant.ChatRoleUser, Content: "m"}
				if err := repo.Append(ctx, msg); err == nil {
					ids <- msg.ID
				}
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate relay id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
}
