package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"recruit-assist-be/internal/bootstrap"
	"recruit-assist-be/internal/config"
	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_CONNECTION_STRING", "")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("SMTP_HOST", "")

	cfg := config.Load()
	container := bootstrap.NewContainer(nil, cfg)
	srv := server.New(cfg, container)
	return srv.GetApp()
}

func agentToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"role":    "agent",
		"user_id": "agent-1",
		"name":    "Noa",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 30000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", string(raw))
	return resp.StatusCode, env
}

// Walks the whole surface in one pass: AI chat, handoff, agent takeover,
// relay polling, close. The completion provider is unreachable in CI, so
// assistant replies come from the deterministic fallback path; that is part
// of the contract under test.
func TestAssistantHTTPFlow(t *testing.T) {
	app := newTestApp(t)
	token := agentToken(t)

	// 1. User asks a question, gets an answer and a session.
	var sessionID string
	{
		status, env := doJSON(t, app, http.MethodPost, "/api/assistant/v1/message", "", map[string]string{
			"message": "What documents do I need for a student visa in the USA?",
		})
		require.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)

		var data struct {
			SessionID   string `json:"session_id"`
			Response    string `json:"response"`
			AgentActive bool   `json:"agent_active"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotEmpty(t, data.SessionID)
		assert.NotEmpty(t, data.Response)
		assert.False(t, data.AgentActive)
		sessionID = data.SessionID
	}

	// 2. Markup-only input sanitizes to empty and is rejected.
	{
		status, env := doJSON(t, app, http.MethodPost, "/api/assistant/v1/message", "", map[string]string{
			"message": "<script>alert(1)</script>",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, env.Success)
	}

	// 3. Session view shows both turns.
	{
		status, env := doJSON(t, app, http.MethodGet, "/api/assistant/v1/session/"+sessionID, "", nil)
		require.Equal(t, http.StatusOK, status)

		var data struct {
			History []struct {
				Role string `json:"role"`
			} `json:"history"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.History, 2)
		assert.Equal(t, constant.ChatRoleUser, data.History[0].Role)
		assert.Equal(t, constant.ChatRoleAssistant, data.History[1].Role)
	}

	// 4. Profile merge.
	{
		status, _ := doJSON(t, app, http.MethodPut, "/api/assistant/v1/profile/"+sessionID, "", map[string]string{
			"name": "Dana",
		})
		assert.Equal(t, http.StatusOK, status)
	}

	// 5. Agent endpoints reject missing and non-agent tokens with 403.
	{
		status, _ := doJSON(t, app, http.MethodGet, "/api/agent/v1/waiting-sessions", "", nil)
		assert.Equal(t, http.StatusForbidden, status)

		userClaims := jwt.MapClaims{"role": "user", "user_id": "u1", "exp": time.Now().Add(time.Hour).Unix()}
		userToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		status, _ = doJSON(t, app, http.MethodGet, "/api/agent/v1/waiting-sessions", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	}

	// 6. Handoff request queues the session.
	{
		status, env := doJSON(t, app, http.MethodPost, "/api/assistant/v1/handoff", "", map[string]string{
			"session_id": sessionID,
			"reason":     "need a human",
			"user_name":  "Dana",
		})
		require.Equal(t, http.StatusOK, status)

		var data struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, constant.HandoffStatusWaiting, data.Status)
	}

	// 7. The agent sees it and joins.
	{
		status, env := doJSON(t, app, http.MethodGet, "/api/agent/v1/waiting-sessions", token, nil)
		require.Equal(t, http.StatusOK, status)

		var waiting []struct {
			SessionID string `json:"session_id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &waiting))
		require.Len(t, waiting, 1)
		assert.Equal(t, sessionID, waiting[0].SessionID)

		status, env = doJSON(t, app, http.MethodPost, "/api/agent/v1/join/"+sessionID, token, nil)
		require.Equal(t, http.StatusOK, status)

		var data struct {
			Status     string `json:"status"`
			Transcript []struct {
				Role string `json:"role"`
			} `json:"transcript"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, constant.HandoffStatusJoined, data.Status)
		// Snapshot of the two AI-era turns plus the join announcement.
		require.Len(t, data.Transcript, 3)
	}

	// 8. With the agent live, user messages are relayed, not answered.
	{
		status, env := doJSON(t, app, http.MethodPost, "/api/assistant/v1/message", "", map[string]string{
			"message":    "are you there?",
			"session_id": sessionID,
		})
		require.Equal(t, http.StatusOK, status)

		var data struct {
			Response    string `json:"response"`
			AgentActive bool   `json:"agent_active"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.True(t, data.AgentActive)
		assert.Equal(t, constant.ForwardedToAgentNotice, data.Response)
	}

	// 9. Agent replies, then closes.
	{
		status, _ := doJSON(t, app, http.MethodPost, "/api/agent/v1/session/"+sessionID+"/message", token, map[string]string{
			"content": "hi, how can I help",
		})
		require.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, app, http.MethodPost, "/api/agent/v1/session/"+sessionID+"/close", token, nil)
		require.Equal(t, http.StatusOK, status)

		// Replying into a closed session is a 400.
		status, _ = doJSON(t, app, http.MethodPost, "/api/agent/v1/session/"+sessionID+"/message", token, map[string]string{
			"content": "too late",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	}

	// 10. The poll endpoint replays everything in relay order.
	{
		status, env := doJSON(t, app, http.MethodGet, "/api/assistant/v1/session/"+sessionID+"/updates?after=0", "", nil)
		require.Equal(t, http.StatusOK, status)

		var data struct {
			Messages []struct {
				ID      int64  `json:"id"`
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			NextCursor       int64 `json:"next_cursor"`
			PollAfterSeconds int   `json:"poll_after_seconds"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))

		// snapshot(2) + join notice + user msg + agent msg + close notice
		require.Len(t, data.Messages, 6)
		for i := 1; i < len(data.Messages); i++ {
			assert.Greater(t, data.Messages[i].ID, data.Messages[i-1].ID)
		}
		last := data.Messages[len(data.Messages)-1]
		assert.Equal(t, constant.ChatRoleSystem, last.Role)
		assert.Equal(t, constant.ChatEndedByAgentNotice, last.Content)
		assert.Equal(t, last.ID, data.NextCursor)
		assert.Equal(t, constant.RecommendedPollSeconds, data.PollAfterSeconds)

		// Cursor poll past the close returns nothing new.
		status, env = doJSON(t, app, http.MethodGet, "/api/assistant/v1/session/"+sessionID+"/updates?after="+strconv.FormatInt(data.NextCursor, 10), "", nil)
		require.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Empty(t, data.Messages)
	}
}
