package nexusdash

import (
	"encoding/json"
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are a professional, objective financial AI agent. Do not give illegal financial advice, but provide analysis based on data.`

const optimizationResultSchema = `{
  "proposedAllocation": [ {"ticker": "AAPL", "weight": 0.25}, ... ],
  "expectedReturn": 0.12,
  "volatility": 0.15,
  "sharpeRatio": 1.8,
  "rationale": "A detailed explanation of why this allocation was chosen, referencing market trends and the optimization math."
}`

// AnalysisRequest is a model-ready payload for a portfolio analysis call.
type AnalysisRequest struct {
	SystemPrompt string
	UserPrompt   string
	EnableSearch bool
}

// OptimizationRequest is a model-ready payload for an optimization call.
type OptimizationRequest struct {
	UserPrompt     string
	ThinkingBudget int32
}

// assetContext is the condensed per-asset view sent to the model. Raw Asset
// fields never appear in the prompt, only these derived ones.
type assetContext struct {
	Ticker     string  `json:"ticker"`
	Allocation float64 `json:"allocation"`
	Profit     float64 `json:"profit"`
}

// BuildAnalysisRequest turns a portfolio snapshot and a user query into a
// model-ready analysis request. Pure; no side effects.
func BuildAnalysisRequest(portfolio Portfolio, userQuery string) (AnalysisRequest, error) {
	query := strings.TrimSpace(userQuery)
	if query == "" {
		return AnalysisRequest{}, NewError(ErrCodeValidation, "query must not be empty")
	}

	contexts := make([]assetContext, 0, len(portfolio.Assets))
	for _, a := range portfolio.Assets {
		profit, _ := a.UnrealizedProfit().Float64()
		contexts = append(contexts, assetContext{
			Ticker:     a.Ticker,
			Allocation: a.Allocation,
			Profit:     profit,
		})
	}
	portfolioContext, err := json.Marshal(contexts)
	if err != nil {
		return AnalysisRequest{}, WrapError(ErrCodeInternal, "serialize portfolio context", err)
	}

	prompt := fmt.Sprintf(`You are Nexus Capital, an expert AI financial analyst.
Here is the user's current portfolio summary: %s.

User Query: "%s"

Provide a concise, actionable response. If the user asks about market news, use the search tool.
If the user asks for specific advice on their holdings, reference the portfolio data.
Format specific monetary values or percentages clearly.`, string(portfolioContext), query)

	return AnalysisRequest{
		SystemPrompt: analysisSystemPrompt,
		UserPrompt:   prompt,
		EnableSearch: true,
	}, nil
}

// BuildOptimizationRequest turns a portfolio snapshot and strategy
// parameters into a model-ready optimization request. Pure; no side effects.
func BuildOptimizationRequest(portfolio Portfolio, req StrategyRequest) (OptimizationRequest, error) {
	normalized, err := normalizeStrategyRequest(req)
	if err != nil {
		return OptimizationRequest{}, err
	}

	prompt := fmt.Sprintf(`Act as a Portfolio Optimization Engine using the %s method.
Current Assets: %s.
Investment Amount: $%g.
Risk Tolerance: %s.
Method: %s.

Perform a deep analysis of the current market conditions (simulated) and the mathematical properties of these assets.

I need you to output a JSON object ONLY, representing the optimized portfolio allocation.

Schema:
%s`,
		normalized.StrategyType,
		strings.Join(portfolio.Tickers(), ", "),
		normalized.Amount,
		normalized.RiskLevel,
		normalized.StrategyType,
		optimizationResultSchema,
	)

	return OptimizationRequest{
		UserPrompt:     prompt,
		ThinkingBudget: defaultThinkingBudget,
	}, nil
}

func normalizeStrategyRequest(req StrategyRequest) (StrategyRequest, error) {
	normalized := req
	if !(normalized.Amount > 0) {
		return StrategyRequest{}, NewError(ErrCodeValidation, "amount must be positive")
	}
	normalized.RiskLevel = strings.TrimSpace(req.RiskLevel)
	if !contains(RiskLevels, normalized.RiskLevel) {
		return StrategyRequest{}, NewError(ErrCodeValidation, fmt.Sprintf("invalid risk level: %s", req.RiskLevel))
	}
	normalized.StrategyType = strings.TrimSpace(req.StrategyType)
	if !contains(StrategyMethods, normalized.StrategyType) {
		return StrategyRequest{}, NewError(ErrCodeValidation, fmt.Sprintf("invalid strategy type: %s", req.StrategyType))
	}
	return normalized, nil
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
