package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/pkg/logger"
	"recruit-assist-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handoffFixture struct {
	sessions ISessionService
	relay    IRelayService
	handoffs IHandoffService
}

func newHandoffFixture() *handoffFixture {
	sessions := NewSessionService(memory.NewSessionRepository(time.Hour))
	relay := NewRelayService(memory.NewRelayMessageRepository())
	locks := NewChatLocks()
	handoffs := NewHandoffService(memory.NewHandoffRepository(), relay, sessions, locks, nil, logger.NewNopLogger())
	return &handoffFixture{sessions: sessions, relay: relay, handoffs: handoffs}
}

func (f *handoffFixture) seedSession(t *testing.T, sessionID string, turns ...string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.sessions.Create(ctx, "", sessionID)
	require.NoError(t, err)
	for i, content := range turns {
		role := constant.ChatRoleUser
		if i%2 == 1 {
			role = constant.ChatRoleAssistant
		}
		require.NoError(t, f.sessions.AppendTurn(ctx, sessionID, role, content))
	}
}

func TestRequestUnknownSessionIsNotFound(t *testing.T) {
	f := newHandoffFixture()

	_, err := f.handoffs.Request(context.Background(), &dto.HandoffRequest{SessionID: "ghost"})
	require.Error(t, err)
}

func TestRequestSnapshotsHistoryIntoRelay(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1", "what about a work visa", "Here is what I know...")

	h, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1", Reason: "need details", UserName: "Omer"})
	require.NoError(t, err)
	assert.Equal(t, constant.HandoffStatusWaiting, h.Status)
	assert.Equal(t, "Omer", h.Contact.UserName)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, constant.ChatRoleUser, msgs[0].Role)
	assert.Equal(t, "what about a work visa", msgs[0].Content)
	assert.Equal(t, constant.ChatRoleAssistant, msgs[1].Role)
}

func TestRepeatedRequestUpdatesContactWithoutSecondSnapshot(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1", "hello", "hi")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1", UserName: "first"})
	require.NoError(t, err)

	h, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1", UserName: "second", UserMobile: "0501234567"})
	require.NoError(t, err)
	assert.Equal(t, constant.HandoffStatusWaiting, h.Status)
	assert.Equal(t, "second", h.Contact.UserName)
	assert.Equal(t, "0501234567", h.Contact.UserMobile)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestJoinSetsAgentFieldsAndAnnounces(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)

	h, err := f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)
	assert.Equal(t, constant.HandoffStatusJoined, h.Status)
	assert.Equal(t, "agent-7", h.AgentID)
	require.NotNil(t, h.JoinedAt)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, constant.ChatRoleSystem, last.Role)
	assert.Contains(t, last.Content, "Noa")
}

func TestJoinWithoutWaitingHandoffIsNotFound(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.Error(t, err)

	// Joined sessions cannot be joined again either.
	_, err = f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-8", "Gil")
	require.Error(t, err)
}

func TestConcurrentJoinsExactlyOneWins(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := f.handoffs.Join(ctx, "s1", "agent", "Agent"); err == nil {
				atomic.AddInt64(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}

func TestCloseWritesNoticeAndClearsAgentFields(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)

	h, err := f.handoffs.Close(ctx, "s1", "agent")
	require.NoError(t, err)
	assert.Equal(t, constant.HandoffStatusClosed, h.Status)
	assert.Empty(t, h.AgentID)
	assert.Nil(t, h.JoinedAt)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	assert.Equal(t, constant.ChatRoleSystem, last.Role)
	assert.Equal(t, constant.ChatEndedByAgentNotice, last.Content)
}

func TestCloseByUserWritesUserNotice(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)

	_, err = f.handoffs.Close(ctx, "s1", "user")
	require.NoError(t, err)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, constant.ChatEndedByUserNotice, msgs[len(msgs)-1].Content)
}

func TestCloseMissingOrClosedIsNotFound(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Close(ctx, "s1", "agent")
	require.Error(t, err)

	_, err = f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "a", "A")
	require.NoError(t, err)
	_, err = f.handoffs.Close(ctx, "s1", "agent")
	require.NoError(t, err)

	_, err = f.handoffs.Close(ctx, "s1", "agent")
	require.Error(t, err)
}

func TestReopenResetsRecordWithoutNewSnapshot(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1", "hello", "hi")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)
	_, err = f.handoffs.Close(ctx, "s1", "agent")
	require.NoError(t, err)

	before, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)

	h, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1", UserName: "again"})
	require.NoError(t, err)
	assert.Equal(t, constant.HandoffStatusWaiting, h.Status)
	assert.Empty(t, h.AgentID)
	assert.Nil(t, h.JoinedAt)
	assert.Equal(t, "again", h.Contact.UserName)

	after, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestJoinRelaysTurnsSentWhileWaiting(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1", "hello", "hi")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)

	// The assistant keeps answering while the session waits in the queue.
	require.NoError(t, f.sessions.AppendTurn(ctx, "s1", constant.ChatRoleUser, "one more thing"))
	require.NoError(t, f.sessions.AppendTurn(ctx, "s1", constant.ChatRoleAssistant, "Sure, here you go."))

	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	// seeded snapshot (2) + waiting-era turns (2) + join notice
	require.Len(t, msgs, 5)
	assert.Equal(t, "one more thing", msgs[2].Content)
	assert.Equal(t, "Sure, here you go.", msgs[3].Content)
	assert.Equal(t, constant.ChatRoleSystem, msgs[4].Role)
}

func TestReopenRelaysTurnsFromClosedPeriod(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1", "hello", "hi")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)
	_, err = f.handoffs.Close(ctx, "s1", "agent")
	require.NoError(t, err)

	// Turns exchanged with the assistant after the agent left.
	require.NoError(t, f.sessions.AppendTurn(ctx, "s1", constant.ChatRoleUser, "actually, one follow-up"))
	require.NoError(t, f.sessions.AppendTurn(ctx, "s1", constant.ChatRoleAssistant, "Happy to help."))

	before, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)

	_, err = f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)

	after, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, after, len(before)+2)
	assert.Equal(t, "actually, one follow-up", after[len(after)-2].Content)
	assert.Equal(t, "Happy to help.", after[len(after)-1].Content)

	// Reopening again without new turns copies nothing.
	_, err = f.handoffs.Join(ctx, "s1", "agent-8", "Gil")
	require.NoError(t, err)
	final, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, final, len(after)+1) // join notice only
}

func TestAgentMessageRequiresJoinedStatus(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.AgentMessage(ctx, "s1", "agent-7", "hi there")
	require.Error(t, err)

	_, err = f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)

	id, err := f.handoffs.AgentMessage(ctx, "s1", "agent-7", "hi there")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = f.handoffs.AgentMessage(ctx, "s1", "someone-else", "let me in")
	require.Error(t, err)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	assert.Equal(t, constant.ChatRoleAgent, last.Role)
	assert.Equal(t, "hi there", last.Content)
}

func TestAgentMessageIsSanitizedBeforeStorage(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s1", "agent-7", "Noa")
	require.NoError(t, err)

	_, err = f.handoffs.AgentMessage(ctx, "s1", "agent-7", "<b>here is</b> the form")
	require.NoError(t, err)

	msgs, err := f.relay.ListAll(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "here is the form", msgs[len(msgs)-1].Content)

	// Markup-only content cleans to empty and is rejected.
	_, err = f.handoffs.AgentMessage(ctx, "s1", "agent-7", "<script>alert(1)</script>")
	require.Error(t, err)
}

func TestWaitingSessionsListsOnlyWaiting(t *testing.T) {
	f := newHandoffFixture()
	ctx := context.Background()
	f.seedSession(t, "s1")
	f.seedSession(t, "s2")

	_, err := f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s1"})
	require.NoError(t, err)
	_, err = f.handoffs.Request(ctx, &dto.HandoffRequest{SessionID: "s2"})
	require.NoError(t, err)
	_, err = f.handoffs.Join(ctx, "s2", "a", "A")
	require.NoError(t, err)

	waiting, err := f.handoffs.WaitingSessions(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "s1", waiting[0].SessionID)
}
