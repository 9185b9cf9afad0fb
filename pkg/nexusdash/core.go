package nexusdash

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Options controls Core initialization.
type Options struct {
	Logger  *slog.Logger
	Gateway Gateway
	// GatewayOptions configures the default gateway when Gateway is nil.
	GatewayOptions GatewayOptions
	// Portfolio overrides the demo snapshot when non-nil.
	Portfolio *Portfolio
}

// Core owns the shared read-only portfolio and the session registries. The
// portfolio has a single writer: initialization.
type Core struct {
	logger    *slog.Logger
	gateway   Gateway
	portfolio Portfolio

	mu         sync.Mutex
	chats      map[string]*ChatSession
	optimizers map[string]*OptimizerSession
}

// New initializes a Core. With zero Options it serves the demo portfolio
// through the default multi-provider gateway.
func New(opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gateway := opts.Gateway
	if gateway == nil {
		gwOpts := opts.GatewayOptions
		if gwOpts.Logger == nil {
			gwOpts.Logger = logger
		}
		gateway = NewGateway(gwOpts)
	}
	portfolio := DemoPortfolio()
	if opts.Portfolio != nil {
		portfolio = *opts.Portfolio
	}
	return &Core{
		logger:     logger,
		gateway:    gateway,
		portfolio:  portfolio,
		chats:      make(map[string]*ChatSession),
		optimizers: make(map[string]*OptimizerSession),
	}
}

// Logger returns the Core's logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

// Portfolio returns the shared read-only snapshot.
func (c *Core) Portfolio() Portfolio {
	return c.portfolio
}

// CreateChatSession registers a new chat session and returns it.
func (c *Core) CreateChatSession() *ChatSession {
	session := NewChatSession(uuid.NewString(), c.portfolio, c.gateway, c.logger)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats[session.ID()] = session
	return session
}

// ChatSession looks up a chat session by id.
func (c *Core) ChatSession(id string) (*ChatSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.chats[id]
	if !ok {
		return nil, NewError(ErrCodeNotFound, "chat session not found")
	}
	return session, nil
}

// CloseChatSession closes and unregisters a chat session.
func (c *Core) CloseChatSession(id string) error {
	c.mu.Lock()
	session, ok := c.chats[id]
	if ok {
		delete(c.chats, id)
	}
	c.mu.Unlock()
	if !ok {
		return NewError(ErrCodeNotFound, "chat session not found")
	}
	session.Close()
	return nil
}

// CreateOptimizerSession registers a new optimizer session and returns it.
func (c *Core) CreateOptimizerSession() *OptimizerSession {
	session := NewOptimizerSession(uuid.NewString(), c.portfolio, c.gateway, c.logger)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optimizers[session.ID()] = session
	return session
}

// OptimizerSession looks up an optimizer session by id.
func (c *Core) OptimizerSession(id string) (*OptimizerSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.optimizers[id]
	if !ok {
		return nil, NewError(ErrCodeNotFound, "optimizer session not found")
	}
	return session, nil
}

// CloseOptimizerSession closes and unregisters an optimizer session.
func (c *Core) CloseOptimizerSession(id string) error {
	c.mu.Lock()
	session, ok := c.optimizers[id]
	if ok {
		delete(c.optimizers, id)
	}
	c.mu.Unlock()
	if !ok {
		return NewError(ErrCodeNotFound, "optimizer session not found")
	}
	session.Close()
	return nil
}
