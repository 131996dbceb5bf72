package config

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderMock     = "mock"
)

// GeminiBaseURL is Google's OpenAI-compatible endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGemini
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case ProviderGemini:
			cfg.LLM.Model = "gemini-2.5-pro"
		case ProviderOllama:
			cfg.LLM.Model = "llama3.2"
		case ProviderDeepSeek:
			cfg.LLM.Model = "deepseek-chat"
		case ProviderOpenAI:
			cfg.LLM.Model = "gpt-4o-mini"
		}
	}
	if cfg.LLM.BaseURL == "" && cfg.LLM.Provider == ProviderGemini {
		cfg.LLM.BaseURL = GeminiBaseURL
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "API_KEY"
	}
	if cfg.LLM.Temperature == nil {
		cfg.LLM.Temperature = float(0.5)
	}
	if cfg.LLM.TopP == nil {
		cfg.LLM.TopP = float(0.95)
	}
	if cfg.Wizard.DefaultLanguage == "" {
		cfg.Wizard.DefaultLanguage = "English"
	}
}

func float(v float64) *float64 { return &v }
