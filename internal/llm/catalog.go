// Package llm resolves chat model selections and wraps the provider SDKs
// the gateway can call directly.
package llm

// Provider keys accepted in the chat request body.
const (
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
)

// modelOptions maps a provider key to the default model served for it.
var modelOptions = map[string]string{
	ProviderAnthropic: "anthropic/claude-sonnet-4-20250514",
	ProviderGoogle:    "google/gemini-2.0-flash",
	ProviderOpenAI:    "openai/gpt-4o",
}

// Resolve returns the model identifier for a provider key.
func Resolve(provider string) (string, bool) {
	model, ok := modelOptions[provider]
	return model, ok
}

// Providers lists the configured provider keys.
func Providers() []string {
	return []string{ProviderAnthropic, ProviderGoogle, ProviderOpenAI}
}
