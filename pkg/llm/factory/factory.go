package factory

import (
	"fmt"

	"recruit-assist-be/pkg/llm"
	"recruit-assist-be/pkg/llm/huggingface"
	"recruit-assist-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, hfAPIKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(hfAPIKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
