package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/orchestrator"
	"github.com/desertthunder/champr/internal/state"
)

// Dispatcher accepts commands for the refresh loop. Post must not block.
type Dispatcher interface {
	Post(cmd orchestrator.Command) bool
}

// ControlResponse is the JSON body of every control endpoint.
type ControlResponse struct {
	OK         bool   `json:"ok"`
	Command    string `json:"command,omitempty"`
	Source     string `json:"source,omitempty"`
	Connected  bool   `json:"connected"`
	Port       int    `json:"port,omitempty"`
	ChampionID int64  `json:"championId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ControlHandler implements [Handler] for the tray commands.
type ControlHandler struct {
	dispatch Dispatcher
	status   func() state.Snapshot
	wake     func()
	logger   *log.Logger
}

// NewControlHandler creates a ControlHandler. status and wake may be nil;
// wake runs after every accepted command so the loop picks it up immediately.
func NewControlHandler(dispatch Dispatcher, status func() state.Snapshot, wake func(), logger *log.Logger) *ControlHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ControlHandler{dispatch: dispatch, status: status, wake: wake, logger: logger}
}

// Routes implements [Handler].
func (h *ControlHandler) Routes() []string {
	return []string{"POST /toggle", "POST /apply", "GET /status"}
}

// ServeHTTP implements [http.Handler].
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/toggle":
		h.post(w, orchestrator.ToggleVisibility{}, ControlResponse{Command: "toggle"})
	case "/apply":
		source := r.URL.Query().Get("source")
		h.post(w, orchestrator.TriggerBulkApply{Source: source}, ControlResponse{Command: "apply", Source: source})
	case "/status":
		h.writeJSON(w, http.StatusOK, h.snapshot(ControlResponse{OK: true}))
	default:
		http.NotFound(w, r)
	}
}

func (h *ControlHandler) post(w http.ResponseWriter, cmd orchestrator.Command, resp ControlResponse) {
	if !h.dispatch.Post(cmd) {
		resp.Error = "command queue is full"
		h.writeJSON(w, http.StatusServiceUnavailable, h.snapshot(resp))
		return
	}
	if h.wake != nil {
		h.wake()
	}
	resp.OK = true
	h.logger.Debug("command accepted", "command", resp.Command, "source", resp.Source)
	h.writeJSON(w, http.StatusAccepted, h.snapshot(resp))
}

func (h *ControlHandler) snapshot(resp ControlResponse) ControlResponse {
	if h.status == nil {
		return resp
	}
	snap := h.status()
	resp.Connected = snap.Auth.Connected()
	resp.Port = snap.Auth.Port
	resp.ChampionID = snap.CurrentChampion()
	return resp
}

func (h *ControlHandler) writeJSON(w http.ResponseWriter, code int, body ControlResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write response", "err", err)
	}
}
