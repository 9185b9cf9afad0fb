package nexusdash

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// SessionState is a controller's finite state. Success and failure both
// collapse back to idle so further input can be accepted.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateSubmitting SessionState = "submitting"
)

const (
	chatGreeting      = "Hello! I'm Nexus. I have access to your portfolio and live market data via Google Search. How can I assist you today?"
	chatThinkingText  = "Nexus is analyzing..."
	chatErrorFallback = "I encountered an error while processing your request. Please try again."
)

// ChatSession owns one conversation log and its state machine. At most one
// request is in flight per session; a submit while submitting is rejected
// without touching the log.
type ChatSession struct {
	id        string
	portfolio Portfolio
	gateway   Gateway
	logger    *slog.Logger

	mu       sync.Mutex
	state    SessionState
	messages []ChatMessage
	nextID   int64
	closed   bool
}

// NewChatSession creates a session seeded with the greeting message.
func NewChatSession(id string, portfolio Portfolio, gateway Gateway, logger *slog.Logger) *ChatSession {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ChatSession{
		id:        id,
		portfolio: portfolio,
		gateway:   gateway,
		logger:    logger,
		state:     StateIdle,
		nextID:    1,
	}
	s.messages = append(s.messages, s.newMessage(RoleModel, chatGreeting))
	return s
}

// ID returns the session identifier.
func (s *ChatSession) ID() string {
	return s.id
}

// State returns the current controller state.
func (s *ChatSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the conversation log in append order.
func (s *ChatSession) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// newMessage allocates the next monotonic message id. Caller holds the lock
// (or the session is not yet shared).
func (s *ChatSession) newMessage(role, text string) ChatMessage {
	m := ChatMessage{
		ID:        s.nextID,
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	s.nextID++
	return m
}

// Submit sends a user message through the analysis pipeline and returns the
// resulting model message. Gateway and interpreter failures are absorbed
// into a generic error message appended to the log; only validation, busy,
// and closed-session conditions surface as errors.
func (s *ChatSession) Submit(ctx context.Context, text string) (ChatMessage, error) {
	return s.submit(ctx, text, nil)
}

// SubmitStream behaves like Submit but streams model deltas through onDelta
// as they arrive.
func (s *ChatSession) SubmitStream(ctx context.Context, text string, onDelta ChatDeltaFunc) (ChatMessage, error) {
	return s.submit(ctx, text, onDelta)
}

func (s *ChatSession) submit(ctx context.Context, text string, onDelta ChatDeltaFunc) (ChatMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ChatMessage{}, NewError(ErrCodeValidation, "message must not be empty")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ChatMessage{}, NewError(ErrCodeNotFound, "chat session is closed")
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ChatMessage{}, NewError(ErrCodeBusy, "a request is already in flight")
	}
	s.state = StateSubmitting

	// History snapshot excludes the message being submitted; it is threaded
	// through the gateway separately.
	history := make([]ChatMessage, len(s.messages))
	copy(history, s.messages)

	s.messages = append(s.messages, s.newMessage(RoleUser, trimmed))
	placeholder := s.newMessage(RoleModel, chatThinkingText)
	placeholder.IsThinking = true
	s.messages = append(s.messages, placeholder)
	s.mu.Unlock()

	text, citations := s.generate(ctx, history, trimmed, onDelta)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// The session went away while the request was in flight; drop the
		// late response instead of touching dead state.
		return ChatMessage{}, NewError(ErrCodeNotFound, "chat session is closed")
	}

	s.dropThinkingPlaceholder()
	reply := s.newMessage(RoleModel, text)
	reply.Citations = citations
	s.messages = append(s.messages, reply)
	s.state = StateIdle
	return reply, nil
}

func (s *ChatSession) generate(ctx context.Context, history []ChatMessage, text string, onDelta ChatDeltaFunc) (string, []Citation) {
	if onDelta != nil {
		raw, err := s.gateway.StreamChat(ctx, history, text, onDelta)
		if err != nil {
			s.logger.Error("chat stream failed", "session_id", s.id, "err", err)
			return chatErrorFallback, nil
		}
		reply, citations := InterpretAnalysis(raw)
		return reply, citations
	}

	req, err := BuildAnalysisRequest(s.portfolio, text)
	if err != nil {
		s.logger.Error("build analysis request failed", "session_id", s.id, "err", err)
		return chatErrorFallback, nil
	}
	raw, err := s.gateway.SendAnalysis(ctx, req)
	if err != nil {
		s.logger.Error("chat analysis failed", "session_id", s.id, "err", err)
		return chatErrorFallback, nil
	}
	reply, citations := InterpretAnalysis(raw)
	return reply, citations
}

// dropThinkingPlaceholder removes the transient placeholder; the real
// response is appended as a fresh message, never mutated in place.
func (s *ChatSession) dropThinkingPlaceholder() {
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.IsThinking {
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
}

// Close marks the session dead. Any in-flight response is discarded when it
// arrives.
func (s *ChatSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
