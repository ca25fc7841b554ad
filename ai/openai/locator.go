// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/rematch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxParseAttempts bounds how often a malformed JSON answer is re-requested.
const maxParseAttempts = 3

// Locator implements ai.Locator using OpenAI-compatible chat APIs.
type Locator struct {
	client llms.Model
	logger *slog.Logger
}

// locateAnswer is the structure expected from the LLM.
type locateAnswer struct {
	Found      bool   `json:"found"`
	StartQuote string `json:"start_quote"`
	EndQuote   string `json:"end_quote"`
}

// newLocator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newLocator(config *ai.Config) (*Locator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.LocatorHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.LocatorModel),
	)
	if err != nil {
		return nil, err
	}

	return newLocatorWithModel(client), nil
}

// newLocatorWithModel wraps an arbitrary llms.Model. Used by tests.
func newLocatorWithModel(client llms.Model) *Locator {
	return &Locator{
		client: client,
		logger: slog.Default().With("component", "openai-locator"),
	}
}

// NewLocator creates a new locator using the provided configuration.
//
// Returns ai.Locator interface to enforce abstraction.
func NewLocator(config *ai.Config) (ai.Locator, error) {
	return newLocator(config)
}

// Locate asks the model for quotes delimiting content inside window and resolves them
// to byte offsets relative to window.
func (l *Locator) Locate(ctx context.Context, content, window string) (ai.LocateResult, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(content, window)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var answer locateAnswer
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := l.client.GenerateContent(ctx, messages, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			l.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.LocateResult{}, err
		}

		if len(response.Choices) < 1 {
			l.logger.Debug("no choices returned from model")
			return ai.LocateResult{}, nil
		}

		answer, err = parseLocateAnswer(response.Choices[0].Content)
		if err != nil {
			lastErr = err
			l.logger.Warn("error parsing locator response",
				"attempt", attempt+1,
				"response", response.Choices[0].Content,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		l.logger.Error("failed to parse locator response after retries", "err", lastErr)
		return ai.LocateResult{}, lastErr
	}

	if !answer.Found {
		return ai.LocateResult{}, nil
	}

	start, end, ok := resolveQuotes(window, answer.StartQuote, answer.EndQuote, len(content))
	if !ok {
		l.logger.Debug("model quote not present in window", "start_quote", answer.StartQuote)
		return ai.LocateResult{}, nil
	}

	return ai.LocateResult{Found: true, RelativeStart: start, RelativeEnd: end}, nil
}
