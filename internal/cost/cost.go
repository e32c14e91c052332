// Package cost prices provider calls from token counts. Pure arithmetic,
// no external calls.
package cost

import (
	"fmt"
	"math"
)

// Rate holds pricing for one (provider, model) pair in USD per million tokens.
type Rate struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// UnknownPricingError is returned for a (provider, model) pair missing from
// the table. Silent zero-cost would corrupt usage reporting, so unknown pairs
// always fail loudly.
type UnknownPricingError struct {
	Provider string
	Model    string
}

func (e *UnknownPricingError) Error() string {
	return fmt.Sprintf("no pricing for %s/%s", e.Provider, e.Model)
}

// rates is keyed "provider/model". Prices in USD per million tokens.
// Sources: vendor pricing pages, checked January 2025.
var rates = map[string]Rate{
	// OpenAI
	"openai/gpt-4o":        {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"openai/gpt-4o-mini":   {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"openai/gpt-4-turbo":   {InputPerMillion: 10.00, OutputPerMillion: 30.00},
	"openai/gpt-3.5-turbo": {InputPerMillion: 0.50, OutputPerMillion: 1.50},

	// Anthropic
	"anthropic/claude-3-5-sonnet-20241022": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"anthropic/claude-3-5-haiku-20241022":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"anthropic/claude-3-sonnet-20240229":   {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"anthropic/claude-3-haiku-20240307":    {InputPerMillion: 0.25, OutputPerMillion: 1.25},
	"anthropic/claude-3-opus-20240229":     {InputPerMillion: 15.00, OutputPerMillion: 75.00},

	// Perplexity
	"perplexity/sonar-pro":       {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"perplexity/sonar":           {InputPerMillion: 1.00, OutputPerMillion: 1.00},
	"perplexity/sonar-reasoning": {InputPerMillion: 1.00, OutputPerMillion: 5.00},

	// Gemini
	"gemini/gemini-2.0-flash":      {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini/gemini-2.0-flash-lite": {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"gemini/gemini-1.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 5.00},
	"gemini/gemini-1.5-flash":      {InputPerMillion: 0.075, OutputPerMillion: 0.30},
}

// Lookup returns the rate for a (provider, model) pair.
func Lookup(provider, model string) (Rate, error) {
	r, ok := rates[provider+"/"+model]
	if !ok {
		return Rate{}, &UnknownPricingError{Provider: provider, Model: model}
	}
	return r, nil
}

// Price computes the USD cost of one call, rounded to 6 decimal places.
func Price(provider, model string, inputTokens, outputTokens int) (float64, error) {
	r, err := Lookup(provider, model)
	if err != nil {
		return 0, err
	}
	c := float64(inputTokens)*r.InputPerMillion/1e6 + float64(outputTokens)*r.OutputPerMillion/1e6
	return math.Round(c*1e6) / 1e6, nil
}
