package nexusdash

import (
	"context"
	"errors"
	"testing"
)

func newTestOptimizer(gw Gateway) *OptimizerSession {
	return NewOptimizerSession("opt-test", DemoPortfolio(), gw, testLogger())
}

func balancedRequest() StrategyRequest {
	return StrategyRequest{
		Amount:       10000,
		RiskLevel:    "Balanced",
		StrategyType: "MeanVariance",
	}
}

func TestOptimizerRun(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		optimizationFn: func(ctx context.Context, req OptimizationRequest) (string, error) {
			return validOptimizationJSON, nil
		},
	}
	s := newTestOptimizer(gw)

	if s.State() != StateIdle {
		t.Fatalf("expected idle before run, got %q", s.State())
	}
	result, err := s.Run(context.Background(), balancedRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.SharpeRatio != 1.5 {
		t.Fatalf("expected sharpe ratio 1.5, got %v", result.SharpeRatio)
	}

	snap := s.Snapshot()
	if snap.State != StateIdle {
		t.Fatalf("expected idle after run, got %q", snap.State)
	}
	if snap.Result == nil || snap.Result.Rationale != "x" {
		t.Fatalf("result not stored: %+v", snap.Result)
	}
	if snap.LastError != "" {
		t.Fatalf("successful run must clear the error, got %q", snap.LastError)
	}
}

func TestOptimizerRunGatewayFailure(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		optimizationFn: func(ctx context.Context, req OptimizationRequest) (string, error) {
			return "", NewError(ErrCodeGateway, "upstream unavailable")
		},
	}
	s := newTestOptimizer(gw)

	_, err := s.Run(context.Background(), balancedRequest())
	if !IsErrorCode(err, ErrCodeGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	snap := s.Snapshot()
	if snap.State != StateIdle {
		t.Fatalf("failed run must return to idle, got %q", snap.State)
	}
	if snap.Result != nil {
		t.Fatalf("failed run must leave the result empty, got %+v", snap.Result)
	}
	if snap.LastError == "" {
		t.Fatalf("failed run must record a visible error")
	}
}

func TestOptimizerRunMalformedResponse(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		optimizationFn: func(ctx context.Context, req OptimizationRequest) (string, error) {
			return `{"proposedAllocation":[]}`, nil
		},
	}
	s := newTestOptimizer(gw)

	_, err := s.Run(context.Background(), balancedRequest())
	if !IsErrorCode(err, ErrCodeMalformedResponse) {
		t.Fatalf("expected malformed-response error, got %v", err)
	}
	if snap := s.Snapshot(); snap.Result != nil || snap.State != StateIdle {
		t.Fatalf("malformed run must end idle with no result: %+v", snap)
	}
}

func TestOptimizerRunRejectsInvalidRequestBeforeGateway(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	s := newTestOptimizer(gw)

	bad := []StrategyRequest{
		{Amount: 0, RiskLevel: "Balanced", StrategyType: "MeanVariance"},
		{Amount: -5, RiskLevel: "Balanced", StrategyType: "MeanVariance"},
		{Amount: 10000, RiskLevel: "Reckless", StrategyType: "MeanVariance"},
		{Amount: 10000, RiskLevel: "Balanced", StrategyType: "Astrology"},
	}
	for _, req := range bad {
		_, err := s.Run(context.Background(), req)
		if !IsErrorCode(err, ErrCodeValidation) {
			t.Fatalf("request %+v: expected validation error, got %v", req, err)
		}
	}
	if gw.optimizationCalls.Load() != 0 {
		t.Fatalf("invalid requests must not reach the gateway")
	}
	if s.State() != StateIdle {
		t.Fatalf("invalid requests must not change state, got %q", s.State())
	}
}

func TestOptimizerRunWhileRunningIsRejected(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	gw := &stubGateway{
		optimizationFn: func(ctx context.Context, req OptimizationRequest) (string, error) {
			close(entered)
			<-release
			return validOptimizationJSON, nil
		},
	}
	s := newTestOptimizer(gw)

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), balancedRequest())
		done <- err
	}()
	<-entered

	if s.State() != StateSubmitting {
		t.Fatalf("expected submitting during run, got %q", s.State())
	}
	_, err := s.Run(context.Background(), balancedRequest())
	if !IsErrorCode(err, ErrCodeBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if gw.optimizationCalls.Load() != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", gw.optimizationCalls.Load())
	}
}

func TestOptimizerRerunClearsPreviousResult(t *testing.T) {
	t.Parallel()

	fail := false
	gw := &stubGateway{
		optimizationFn: func(ctx context.Context, req OptimizationRequest) (string, error) {
			if fail {
				return "", errors.New("flaky upstream")
			}
			return validOptimizationJSON, nil
		},
	}
	s := newTestOptimizer(gw)

	if _, err := s.Run(context.Background(), balancedRequest()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if s.Snapshot().Result == nil {
		t.Fatalf("first run should have stored a result")
	}

	fail = true
	if _, err := s.Run(context.Background(), balancedRequest()); err == nil {
		t.Fatalf("second run should have failed")
	}
	if snap := s.Snapshot(); snap.Result != nil {
		t.Fatalf("failed rerun must clear the stale result, got %+v", snap.Result)
	}
}

func TestOptimizerClosedSession(t *testing.T) {
	t.Parallel()

	s := newTestOptimizer(&stubGateway{})
	s.Close()

	_, err := s.Run(context.Background(), balancedRequest())
	if !IsErrorCode(err, ErrCodeNotFound) {
		t.Fatalf("expected not-found on closed session, got %v", err)
	}
}
