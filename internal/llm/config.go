package llm

// Config holds the settings for the generation service client.
type Config struct {
	Endpoint    string
	Model       string
	APIKey      string
	TimeoutMs   int
	MaxRetries  int
	BackoffMs   int
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns a Config with sensible defaults. The API key has no
// default; it must be supplied out-of-band.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "https://generativelanguage.googleapis.com",
		Model:       "gemini-1.5-flash-latest",
		TimeoutMs:   30000,
		MaxRetries:  1,
		BackoffMs:   500,
		Temperature: 0.4,
		MaxTokens:   4096,
	}
}
