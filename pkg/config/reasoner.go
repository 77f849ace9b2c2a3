package config

import (
	"os"

	"github.com/entrhq/scout/pkg/llm/openai"
)

// BuildReasoner creates a reasoning service client based on configuration
// precedence: CLI flags > Environment variables > Config file > Defaults.
// A missing API key returns (nil, nil): Scout then runs with the
// deterministic fallbacks instead of failing to start.
func BuildReasoner(cliModel, cliBaseURL, cliAPIKey string) (*openai.Reasoner, error) {
	finalModel := cliModel
	finalBaseURL := cliBaseURL
	finalAPIKey := cliAPIKey

	if finalAPIKey == "" {
		finalAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if finalBaseURL == "" {
		finalBaseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if llmConfig := GetLLM(); llmConfig != nil {
		if finalModel == "" {
			finalModel = llmConfig.GetModel()
		}
		if finalBaseURL == "" {
			finalBaseURL = llmConfig.GetBaseURL()
		}
		if finalAPIKey == "" {
			finalAPIKey = llmConfig.GetAPIKey()
		}
	}

	if finalAPIKey == "" {
		return nil, nil
	}

	var opts []openai.Option
	if finalModel != "" {
		opts = append(opts, openai.WithModel(finalModel))
	}
	return openai.NewReasoner(finalAPIKey, finalBaseURL, opts...)
}
