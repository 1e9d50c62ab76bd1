// Package rag orchestrates the retrieval-augmented answer path: intent
// classification, entity extraction, corpus lookup and the grounded
// completion call, with a deterministic fallback when the provider is down.
package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/pkg/logger"
	"recruit-assist-be/pkg/knowledge"
	"recruit-assist-be/pkg/llm"
	"recruit-assist-be/pkg/nlp"
	"recruit-assist-be/pkg/store"
)

// Source identifies a corpus document that grounded a reply.
type Source struct {
	Title     string `json:"title"`
	Authority string `json:"authority"`
}

// Result is the full outcome of one generation pass.
type Result struct {
	Response   string       `json:"response"`
	Intent     string       `json:"intent"`
	Confidence float32      `json:"confidence"`
	Entities   nlp.Entities `json:"entities"`
	Sources    []Source     `json:"sources,omitempty"`
}

const (
	maxRetrievedDocs = 3
	maxHistoryTurns  = 10
)

// Generator produces assistant replies. It never returns an error for
// provider failure: the contract is that this path always yields a usable
// response, degrading to corpus text or a fixed message.
type Generator struct {
	base     *knowledge.Base
	provider llm.Provider
	timeout  time.Duration
	logger   logger.ILogger
}

func NewGenerator(base *knowledge.Base, provider llm.Provider, timeout time.Duration, log logger.ILogger) *Generator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Generator{
		base:     base,
		provider: provider,
		timeout:  timeout,
		logger:   log,
	}
}

// Respond runs the full pipeline for one sanitized user message. The session
// is read for profile filters and recent history; profile mutation is the
// caller's job (the chat service merges Result.Entities back).
func (g *Generator) Respond(ctx context.Context, text string, sess *store.Session) *Result {
	cls := nlp.Classify(text)
	entities := nlp.Extract(text)

	result := &Result{
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Entities:   entities,
	}

	if cls.Intent == nlp.IntentGreeting {
		result.Response = constant.WelcomeMessage
		return result
	}

	// Fresh entities win over remembered profile fields.
	country := entities.Country
	if country == "" {
		country = sess.Profile.TargetCountry
	}
	visaType := entities.VisaType
	if visaType == "" {
		visaType = sess.Profile.VisaType
	}

	docs := g.base.Search(text, country, visaType, maxRetrievedDocs)
	for _, doc := range docs {
		result.Sources = append(result.Sources, Source{Title: doc.Title, Authority: doc.SourceAuthority})
	}

	prompt := buildGroundedPrompt(text, docs, sess.Profile)
	history := recentHistory(sess, maxHistoryTurns)
	history = append(history, llm.Message{Role: "user", Content: prompt})

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reply, err := g.provider.Chat(cctx, history, llm.WithTemperature(0.3))
	if err != nil || strings.TrimSpace(reply) == "" {
		g.logger.Warn("ResponseGenerator", "Completion provider unavailable, using fallback", map[string]interface{}{
			"session_id": sess.ID,
			"error":      fmt.Sprint(err),
		})
		result.Response = g.fallback(docs)
		return result
	}

	result.Response = reply
	return result
}

// fallback builds a deterministic reply from the top retrieved document, or
// the fixed no-information message when retrieval came back empty.
func (g *Generator) fallback(docs []knowledge.Document) string {
	if len(docs) == 0 {
		return constant.NoInformationFallback
	}
	top := docs[0]
	return fmt.Sprintf("%s (source: %s): %s", top.Title, top.SourceAuthority, summarize(top.Content, 400))
}

// recentHistory maps the tail of the session history into provider messages.
// Agent and system turns are skipped: the provider only ever sees the
// user/assistant exchange it participated in.
func recentHistory(sess *store.Session, limit int) []llm.Message {
	turns := sess.History
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		if turn.Role != constant.ChatRoleUser && turn.Role != constant.ChatRoleAssistant {
			continue
		}
		out = append(out, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	return out
}

func summarize(content string, max int) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}
