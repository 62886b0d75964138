package api

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string          `json:"session_id"`
	Reply     string          `json:"reply"`
	Result    ExecutionResult `json:"result"`
}
