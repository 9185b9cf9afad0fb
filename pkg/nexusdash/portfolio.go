package nexusdash

import "github.com/shopspring/decimal"

// DemoPortfolio returns the simulated portfolio snapshot loaded at startup.
// Values are display-only; nothing in this core mutates them.
func DemoPortfolio() Portfolio {
	return Portfolio{
		TotalValue:       145230.50,
		DayChange:        1240.20,
		DayChangePercent: 0.86,
		Assets: []Asset{
			{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology", Quantity: 150, CurrentPrice: 225.50, AvgBuyPrice: 180.00, Allocation: 23.3},
			{Ticker: "MSFT", Name: "Microsoft Corp.", Sector: "Technology", Quantity: 80, CurrentPrice: 415.20, AvgBuyPrice: 350.00, Allocation: 22.9},
			{Ticker: "NVDA", Name: "NVIDIA Corp.", Sector: "Technology", Quantity: 50, CurrentPrice: 850.00, AvgBuyPrice: 400.00, Allocation: 29.2},
			{Ticker: "JPM", Name: "JPMorgan Chase", Sector: "Financial", Quantity: 100, CurrentPrice: 195.10, AvgBuyPrice: 160.00, Allocation: 13.4},
			{Ticker: "PG", Name: "Procter & Gamble", Sector: "Consumer", Quantity: 60, CurrentPrice: 162.80, AvgBuyPrice: 150.00, Allocation: 6.7},
			{Ticker: "GOOGL", Name: "Alphabet Inc.", Sector: "Technology", Quantity: 40, CurrentPrice: 175.40, AvgBuyPrice: 140.00, Allocation: 4.5},
		},
	}
}

// UnrealizedProfit computes (currentPrice - avgBuyPrice) * quantity using
// decimal arithmetic so derived prompt context is exact.
func (a Asset) UnrealizedProfit() decimal.Decimal {
	current := decimal.NewFromFloat(a.CurrentPrice)
	avg := decimal.NewFromFloat(a.AvgBuyPrice)
	qty := decimal.NewFromFloat(a.Quantity)
	return current.Sub(avg).Mul(qty)
}

// Tickers returns the held tickers in display order.
func (p Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.Assets))
	for _, a := range p.Assets {
		tickers = append(tickers, a.Ticker)
	}
	return tickers
}
