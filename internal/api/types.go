package api

type chatMessagePayload struct {
	Text string `json:"text"`
}

type optimizePayload struct {
	Amount       float64 `json:"amount"`
	RiskLevel    string  `json:"risk_level"`
	StrategyType string  `json:"strategy_type"`
}
