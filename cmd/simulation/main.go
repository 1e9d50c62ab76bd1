package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Simplified DTOs for the script
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type sendMessageData struct {
	SessionID   string `json:"session_id"`
	Response    string `json:"response"`
	Intent      string `json:"intent"`
	AgentActive bool   `json:"agent_active"`
}

type updatesData struct {
	Messages []struct {
		ID      int64  `json:"id"`
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	NextCursor       int64 `json:"next_cursor"`
	PollAfterSeconds int   `json:"poll_after_seconds"`
}

func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Recruitment Assistant Walkthrough\n")

	// 1. Chat with the assistant
	color.Yellow("\n[USER] 1. Ask about a student visa")
	var sessionID string
	{
		resp, body, err := sendRequest("POST", "/assistant/v1/message", "", map[string]string{
			"message": "What documents do I need for a student visa in the USA?",
		})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)

		var env envelope
		var data sendMessageData
		json.Unmarshal(body, &env)
		json.Unmarshal(env.Data, &data)
		sessionID = data.SessionID
		fmt.Printf("AI [%s]: %s\n", data.Intent, data.Response)
	}

	// 2. Follow-up uses the remembered profile
	color.Yellow("\n[USER] 2. Follow up about fees")
	{
		resp, body, err := sendRequest("POST", "/assistant/v1/message", "", map[string]string{
			"message":    "How much does it cost?",
			"session_id": sessionID,
		})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)

		var env envelope
		var data sendMessageData
		json.Unmarshal(body, &env)
		json.Unmarshal(env.Data, &data)
		fmt.Printf("AI [%s]: %s\n", data.Intent, data.Response)
	}

	// 3. Ask for a human
	color.Yellow("\n[USER] 3. Request a human agent")
	{
		resp, _, err := sendRequest("POST", "/assistant/v1/handoff", "", map[string]string{
			"session_id": sessionID,
			"reason":     "need a detailed consultation",
			"user_name":  "Walkthrough User",
		})
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
	}

	// 4. Agent side (requires a valid agent token)
	agentToken := os.Getenv("AGENT_TOKEN")
	if agentToken == "" {
		color.Yellow("\nAGENT_TOKEN not set, skipping the agent side of the walkthrough")
	} else {
		color.Yellow("\n[AGENT] 4. Join and reply")
		if resp, body, err := sendRequest("POST", "/agent/v1/join/"+sessionID, agentToken, nil); err == nil {
			color.Green("Join: %s %s", resp.Status, string(body))
		}
		if resp, _, err := sendRequest("POST", "/agent/v1/session/"+sessionID+"/message", agentToken, map[string]string{
			"content": "Hi, I'm taking over from the assistant. How can I help?",
		}); err == nil {
			color.Green("Reply: %s", resp.Status)
		}
	}

	// 5. Poll for updates the way a client UI would
	color.Yellow("\n[USER] 5. Poll the relay")
	{
		resp, body, err := sendRequest("GET", "/assistant/v1/session/"+sessionID+"/updates?after=0", "", nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)

		var env envelope
		var data updatesData
		json.Unmarshal(body, &env)
		json.Unmarshal(env.Data, &data)
		for _, m := range data.Messages {
			fmt.Printf("  #%d [%s] %s\n", m.ID, m.Role, m.Content)
		}
		fmt.Printf("next_cursor=%d poll_after=%ds\n", data.NextCursor, data.PollAfterSeconds)
	}

	color.Cyan("\n✅ Walkthrough finished")
}
