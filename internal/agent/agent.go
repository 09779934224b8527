package agent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bowerhall/relay/internal/conversation"
	"github.com/bowerhall/relay/internal/llm"
	"github.com/bowerhall/relay/internal/logger"
	"github.com/bowerhall/relay/internal/reply"
)

// Agent turns an incoming message into provider-ready chunks: it appends
// the turn to the session history, dispatches the history to the model,
// and post-processes the answer for chat delivery.
type Agent struct {
	model llm.LLM
	store *conversation.Store
}

func New(model llm.LLM, store *conversation.Store) *Agent {
	return &Agent{model: model, store: store}
}

// Process handles a plain text turn and returns the reply in sendable
// chunks.
func (a *Agent) Process(ctx context.Context, sessionID, text string) ([]string, error) {
	return a.send(ctx, sessionID, llm.UserText(text))
}

// ProcessParts handles a multimodal turn (images, pdf text, caption).
func (a *Agent) ProcessParts(ctx context.Context, sessionID string, parts []llm.Part) ([]string, error) {
	return a.send(ctx, sessionID, llm.UserParts(parts))
}

func (a *Agent) send(ctx context.Context, sessionID string, msg llm.Message) ([]string, error) {
	requestID := uuid.New().String()[:8]
	start := time.Now()

	a.store.Append(sessionID, msg)
	a.store.Trim(sessionID)

	history := a.store.Snapshot(sessionID)
	logger.Debug("dispatching to provider",
		"request_id", requestID,
		"session", sessionID,
		"provider", a.model.Provider(),
		"history_len", len(history))

	answer, err := a.model.Chat(ctx, history)
	if err != nil {
		// roll the user turn back so a retry starts from a clean history
		a.store.RemoveLast(sessionID)
		logger.Error("provider call failed",
			"request_id", requestID,
			"session", sessionID,
			"error", err)
		return nil, err
	}

	a.store.Append(sessionID, llm.AssistantText(answer))
	a.store.Trim(sessionID)

	logger.Info("turn complete",
		"request_id", requestID,
		"session", sessionID,
		"duration", time.Since(start).Round(time.Millisecond))

	return reply.Split(reply.StripMarkdown(answer), reply.MaxChunk), nil
}

// StorePDF records extracted document text as conversation context
// without dispatching to the provider.
func (a *Agent) StorePDF(sessionID, text string) {
	a.store.Append(sessionID, llm.UserParts([]llm.Part{llm.PDFPart(text)}))
	a.store.Trim(sessionID)
}

// Clear wipes the session history.
func (a *Agent) Clear(sessionID string) {
	a.store.Clear(sessionID)
}

func (a *Agent) Provider() string { return a.model.Provider() }

func (a *Agent) Model() string { return a.model.Model() }
