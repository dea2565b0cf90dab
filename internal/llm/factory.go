package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
	ProviderOpenAI   = "openai"
)

// ErrUnsupportedProvider is returned by NewClient for unknown provider names.
var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

// openAICompatible describes a provider reached through the OpenAI wire API.
type openAICompatible struct {
	baseURL string
	keyEnv  []string // first non-empty wins
}

var openAIProviders = map[string]openAICompatible{
	ProviderLMStudio: {baseURL: defaultLMStudioBaseURL, keyEnv: []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"}},
	"lm-studio":      {baseURL: defaultLMStudioBaseURL, keyEnv: []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"}},
	ProviderOpenAI:   {baseURL: defaultOpenAIBaseURL, keyEnv: []string{"OPENAI_API_KEY"}},
}

// NewClient builds the Client for provider. An empty provider means Ollama
// and an empty baseURL means the provider's default endpoint.
func NewClient(provider, model, baseURL string) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == "" || name == ProviderOllama {
		return NewOllamaClient(model, baseURL)
	}

	p, ok := openAIProviders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	if baseURL == "" {
		baseURL = p.baseURL
	}
	var key string
	for _, env := range p.keyEnv {
		if key = os.Getenv(env); key != "" {
			break
		}
	}
	return NewOpenAIClient(model, baseURL, key)
}
