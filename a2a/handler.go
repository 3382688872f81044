package a2a

import (
	"encoding/json"
	"net/http"

	"github.com/hupe1980/greenmesh/agent"
	"github.com/hupe1980/greenmesh/logging"
)

// HandlerOptions configure an a2a Handler.
type HandlerOptions struct {
	Logger logging.Logger
}

// NewHandler exposes an agent over the a2a payload contract: POST
// DispatchPath for capability invocations and GET HealthPath for liveness.
// Routing beyond these two endpoints is the embedding server's concern.
func NewHandler(a *agent.BaseAgent, optFns ...func(o *HandlerOptions)) http.Handler {
	opts := HandlerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	mux := http.NewServeMux()

	mux.HandleFunc(DispatchPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req agent.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusOK, agent.Response{
				AgentID: a.ID(),
				Success: false,
				Error: &agent.ErrorDetail{
					Code:    agent.CodeInvalidParameters,
					Message: "malformed request body: " + err.Error(),
				},
			})
			return
		}

		resp := a.Dispatch(r.Context(), req)
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, a.HealthCheck())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
