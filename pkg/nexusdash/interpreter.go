package nexusdash

import (
	"encoding/json"
	"fmt"
	"strings"
)

// analysisEmptyFallback replaces empty or garbled analysis text so the
// conversation never shows a blank model message.
const analysisEmptyFallback = "I couldn't generate an analysis at this moment."

// InterpretAnalysis turns raw gateway output into display text plus
// citations. It never fails; empty text maps to a neutral fallback string.
func InterpretAnalysis(raw *AnalysisResponse) (string, []Citation) {
	if raw == nil {
		return analysisEmptyFallback, nil
	}
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return analysisEmptyFallback, raw.Citations
	}
	return text, raw.Citations
}

// InterpretOptimization parses raw model output into an OptimizationResult,
// enforcing the response schema: markdown fences are stripped, the payload
// must be a JSON object, and all five fields must be present with the right
// types. Held-ticker membership and weight sums are deliberately not
// checked. Fails with ErrCodeMalformedResponse.
func InterpretOptimization(rawText string) (*OptimizationResult, error) {
	cleaned := cleanupModelJSON(rawText)
	if cleaned == "" {
		return nil, NewError(ErrCodeMalformedResponse, "model returned empty output")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, WrapError(ErrCodeMalformedResponse, "model returned invalid JSON", err)
	}

	result := &OptimizationResult{}
	if err := decodeRequired(fields, "proposedAllocation", &result.ProposedAllocation); err != nil {
		return nil, err
	}
	if err := decodeRequired(fields, "expectedReturn", &result.ExpectedReturn); err != nil {
		return nil, err
	}
	if err := decodeRequired(fields, "volatility", &result.Volatility); err != nil {
		return nil, err
	}
	if err := decodeRequired(fields, "sharpeRatio", &result.SharpeRatio); err != nil {
		return nil, err
	}
	if err := decodeRequired(fields, "rationale", &result.Rationale); err != nil {
		return nil, err
	}
	return result, nil
}

func decodeRequired(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok {
		return NewError(ErrCodeMalformedResponse, fmt.Sprintf("missing required field: %s", name))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return WrapError(ErrCodeMalformedResponse, fmt.Sprintf("wrong type for field: %s", name), err)
	}
	return nil
}

// cleanupModelJSON strips markdown code-fence delimiters and any stray text
// around the outermost JSON object.
func cleanupModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.Join(lines, "\n")
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		trimmed = trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}
