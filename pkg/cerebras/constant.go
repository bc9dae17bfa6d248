package cerebras

const (
	// DefaultBaseURL is the default Cerebras API endpoint
	DefaultBaseURL = "https://api.cerebras.ai/v1"

	// DefaultModel is the default model to use
	DefaultModel = "llama-3.3-70b"
)
