package nexusdash

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubGateway lets tests script gateway behavior without any network.
type stubGateway struct {
	analysisFn     func(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
	optimizationFn func(ctx context.Context, req OptimizationRequest) (string, error)
	streamFn       func(ctx context.Context, history []ChatMessage, message string, onDelta ChatDeltaFunc) (*AnalysisResponse, error)

	analysisCalls     atomic.Int64
	optimizationCalls atomic.Int64
	streamCalls       atomic.Int64
}

func (g *stubGateway) SendAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	g.analysisCalls.Add(1)
	if g.analysisFn != nil {
		return g.analysisFn(ctx, req)
	}
	return &AnalysisResponse{Text: "stub analysis"}, nil
}

func (g *stubGateway) SendOptimization(ctx context.Context, req OptimizationRequest) (string, error) {
	g.optimizationCalls.Add(1)
	if g.optimizationFn != nil {
		return g.optimizationFn(ctx, req)
	}
	return `{"proposedAllocation":[],"expectedReturn":0,"volatility":0,"sharpeRatio":0,"rationale":""}`, nil
}

func (g *stubGateway) StreamChat(ctx context.Context, history []ChatMessage, message string, onDelta ChatDeltaFunc) (*AnalysisResponse, error) {
	g.streamCalls.Add(1)
	if g.streamFn != nil {
		return g.streamFn(ctx, history, message, onDelta)
	}
	return &AnalysisResponse{Text: "stub stream"}, nil
}
