package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "go.uber.org/zap"

	"github.com/yanet-platform/bgtasks/internal/coordinator"
	"github.com/yanet-platform/bgtasks/internal/types/requestid"
)

const (
	defaultTaskDuration = time.Second
	maxTaskDuration     = 10 * time.Minute
)

// Status is the body of the status response.
type Status struct {
	State             coordinator.State `json:"state"`
	InFlight          int64             `json:"in_flight"`
	ShutdownRequested bool              `json:"shutdown_requested"`
}

// TaskResponse is the body of the task submission response.
type TaskResponse struct {
	ID       requestid.RequestID `json:"id"`
	Duration string              `json:"duration"`
}

func (m *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, http.StatusOK, Status{
		State:             m.tracker.State(),
		InFlight:          m.tracker.InFlight(),
		ShutdownRequested: m.tracker.ShutdownRequested(),
	})
}

// handleSubmitTask registers a background task that waits for the requested
// duration, or until shutdown is requested, whichever comes first.
func (m *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	duration := defaultTaskDuration
	if value := r.URL.Query().Get("duration"); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil || parsed < 0 || parsed > maxTaskDuration {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}
		duration = parsed
	}

	id, _ := requestid.FromContext(r.Context())
	logger := m.logger.With(log.String("task_id", string(id)))

	err := m.tracker.Run(func(ctx context.Context) error {
		timer := time.NewTimer(duration)
		defer timer.Stop()

		select {
		case <-timer.C:
			logger.Info("task finished", log.Duration("duration", duration))
			return nil
		case <-ctx.Done():
			logger.Info("task interrupted by shutdown")
			return nil
		}
	})
	if err != nil {
		logger.Warn("failed to submit task", log.Error(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	m.writeJSON(w, http.StatusAccepted, TaskResponse{
		ID:       id,
		Duration: duration.String(),
	})
}

func (m *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		m.logger.Warn("failed to write response", log.Error(err))
	}
}
