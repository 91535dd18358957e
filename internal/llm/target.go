package llm

// Provider selects the routing path for a model call.
type Provider string

const (
	// ProviderNative routes straight to the Anthropic messages API.
	ProviderNative Provider = "native"
	// ProviderGateway routes through the OpenRouter chat-completions
	// aggregation endpoint.
	ProviderGateway Provider = "gateway"
)

// Target describes the model one call is routed to. It is an immutable
// value constructed per request and passed explicitly down the call
// chain; nothing in the client mutates it.
type Target struct {
	Provider         Provider
	Model            string
	ExtendedThinking bool
	ThinkingBudget   int // tokens, only used when ExtendedThinking is set
}
