package nexusdash

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDemoPortfolio(t *testing.T) {
	t.Parallel()

	p := DemoPortfolio()
	if p.TotalValue != 145230.50 {
		t.Fatalf("unexpected total value: %v", p.TotalValue)
	}
	if len(p.Assets) != 6 {
		t.Fatalf("expected 6 holdings, got %d", len(p.Assets))
	}
	tickers := p.Tickers()
	want := []string{"AAPL", "MSFT", "NVDA", "JPM", "PG", "GOOGL"}
	if len(tickers) != len(want) {
		t.Fatalf("unexpected tickers: %v", tickers)
	}
	for i, tk := range want {
		if tickers[i] != tk {
			t.Fatalf("ticker order mismatch at %d: got %s, want %s", i, tickers[i], tk)
		}
	}
}

func TestAssetUnrealizedProfit(t *testing.T) {
	t.Parallel()

	a := Asset{Quantity: 150, CurrentPrice: 225.50, AvgBuyPrice: 180.00}
	if got := a.UnrealizedProfit(); !got.Equal(decimal.NewFromInt(6825)) {
		t.Fatalf("expected profit 6825, got %s", got)
	}

	loss := Asset{Quantity: 10, CurrentPrice: 95.25, AvgBuyPrice: 100.00}
	if got := loss.UnrealizedProfit(); !got.Equal(decimal.NewFromFloat(-47.5)) {
		t.Fatalf("expected loss -47.5, got %s", got)
	}
}
