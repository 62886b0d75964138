package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crm-tools/board-insights/pkg/adapters"
	"github.com/crm-tools/board-insights/pkg/models/api"
	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/crm-tools/board-insights/pkg/services/session"
)

type Interpreter interface {
	Interpret(ctx context.Context, message string) domain.Plan
}

type Executor interface {
	Execute(ctx context.Context, p domain.Plan) domain.ExecutionResult
}

type Narrator interface {
	Render(ctx context.Context, question string, result domain.ExecutionResult) string
}

type Handler struct {
	sessions    *session.Store
	interpreter Interpreter
	executor    Executor
	narrator    Narrator
}

func NewHandler(sessions *session.Store, interpreter Interpreter, executor Executor, narrator Narrator) *Handler {
	return &Handler{
		sessions:    sessions,
		interpreter: interpreter,
		executor:    executor,
		narrator:    narrator,
	}
}

// Chat runs one conversational turn: resolve the session, interpret the
// message into a plan, execute it, and narrate the result.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	sessionID, _ := h.sessions.Touch(req.SessionID)

	plan := h.interpreter.Interpret(ctx, req.Message)
	result := h.executor.Execute(ctx, plan)
	reply := h.narrator.Render(ctx, req.Message, result)

	h.sessions.Append(sessionID, session.Message{Role: "user", Text: req.Message})
	h.sessions.Append(sessionID, session.Message{Role: "assistant", Text: reply})

	response := api.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Result:    adapters.MapExecutionResultDomainToApi(result),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Str("session", sessionID).
			Msg("failed to encode chat response")
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
