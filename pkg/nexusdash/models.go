package nexusdash

// RiskLevels is the ordered set of risk tiers a strategy run may use.
var RiskLevels = []string{"Conservative", "Balanced", "Aggressive"}

// StrategyMethods names the supported optimization approaches. Their
// mathematics is delegated entirely to the AI service.
var StrategyMethods = []string{
	"MeanVariance",
	"HierarchicalRiskParity",
	"BlackLitterman",
	"AI_Agent_Custom",
}

// StrategyDescriptions maps each strategy method to its display description.
var StrategyDescriptions = map[string]string{
	"MeanVariance":           "Classic Markowitz optimization to maximize Sharpe ratio.",
	"HierarchicalRiskParity": "Machine learning clustering to build robust, diversified portfolios.",
	"BlackLitterman":         "Combines market equilibrium with AI-generated market views.",
	"AI_Agent_Custom":        "Deep reasoning agent generates a custom strategy based on macro trends.",
}

// Asset is a single holding in the simulated portfolio.
type Asset struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	Quantity     float64 `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	AvgBuyPrice  float64 `json:"avg_buy_price"`
	// Allocation is a display-only percentage; allocations across a
	// portfolio approximate 100 but are not enforced to sum to it.
	Allocation float64 `json:"allocation"`
}

// Portfolio is the shared read-only snapshot loaded once at startup.
type Portfolio struct {
	TotalValue       float64 `json:"total_value"`
	DayChange        float64 `json:"day_change"`
	DayChangePercent float64 `json:"day_change_percent"`
	Assets           []Asset `json:"assets"`
}

// Message roles.
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// Citation is a grounding source the AI service attached to a response.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ChatMessage is one entry in a conversation log. Messages are never mutated
// after creation; the transient thinking placeholder is replaced, not
// mutated, when the real response arrives.
type ChatMessage struct {
	ID         int64      `json:"id"`
	Role       string     `json:"role"`
	Text       string     `json:"text"`
	Timestamp  int64      `json:"timestamp"`
	IsThinking bool       `json:"is_thinking,omitempty"`
	Citations  []Citation `json:"citations,omitempty"`
}

// StrategyRequest defines the inputs to an optimization run.
type StrategyRequest struct {
	Amount       float64 `json:"amount"`
	RiskLevel    string  `json:"risk_level"`
	StrategyType string  `json:"strategy_type"`
}

// AllocationWeight is one ticker→weight pair in a proposed allocation.
// Weights are intended to sum to 1.0 but are not validated against the
// held tickers.
type AllocationWeight struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// OptimizationResult is the structured outcome of one optimization run.
// Created fresh per run and replaced on the next; never persisted.
type OptimizationResult struct {
	ProposedAllocation []AllocationWeight `json:"proposedAllocation"`
	ExpectedReturn     float64            `json:"expectedReturn"`
	Volatility         float64            `json:"volatility"`
	SharpeRatio        float64            `json:"sharpeRatio"`
	Rationale          string             `json:"rationale"`
}
