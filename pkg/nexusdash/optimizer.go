package nexusdash

import (
	"context"
	"log/slog"
	"sync"
)

// OptimizerSession owns one result slot and its state machine. A run clears
// the previous result; a failed run leaves the slot empty but records a
// visible error instead of silently reverting to the empty state.
type OptimizerSession struct {
	id        string
	portfolio Portfolio
	gateway   Gateway
	logger    *slog.Logger

	mu      sync.Mutex
	state   SessionState
	result  *OptimizationResult
	lastErr string
	closed  bool
}

// OptimizerSnapshot is the externally visible session state.
type OptimizerSnapshot struct {
	State     SessionState        `json:"state"`
	Result    *OptimizationResult `json:"result,omitempty"`
	LastError string              `json:"last_error,omitempty"`
}

// NewOptimizerSession creates an idle optimizer session.
func NewOptimizerSession(id string, portfolio Portfolio, gateway Gateway, logger *slog.Logger) *OptimizerSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &OptimizerSession{
		id:        id,
		portfolio: portfolio,
		gateway:   gateway,
		logger:    logger,
		state:     StateIdle,
	}
}

// ID returns the session identifier.
func (s *OptimizerSession) ID() string {
	return s.id
}

// State returns the current controller state.
func (s *OptimizerSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the session's visible state, result, and last error.
func (s *OptimizerSession) Snapshot() OptimizerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OptimizerSnapshot{
		State:     s.state,
		Result:    s.result,
		LastError: s.lastErr,
	}
}

// Run executes one optimization. Invalid parameters are rejected before any
// state change or network call. Gateway and interpreter failures return the
// session to idle with the result slot empty and the failure recorded.
func (s *OptimizerSession) Run(ctx context.Context, req StrategyRequest) (*OptimizationResult, error) {
	payload, err := BuildOptimizationRequest(s.portfolio, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewError(ErrCodeNotFound, "optimizer session is closed")
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, NewError(ErrCodeBusy, "an optimization is already running")
	}
	s.state = StateSubmitting
	s.result = nil
	s.lastErr = ""
	s.mu.Unlock()

	rawText, err := s.gateway.SendOptimization(ctx, payload)
	var result *OptimizationResult
	if err == nil {
		result, err = InterpretOptimization(rawText)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, NewError(ErrCodeNotFound, "optimizer session is closed")
	}
	s.state = StateIdle
	if err != nil {
		s.logger.Error("optimization run failed",
			"session_id", s.id,
			"strategy_type", req.StrategyType,
			"risk_level", req.RiskLevel,
			"err", err,
		)
		s.lastErr = err.Error()
		return nil, err
	}

	s.result = result
	return result, nil
}

// Close marks the session dead. Any in-flight response is discarded when it
// arrives.
func (s *OptimizerSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
