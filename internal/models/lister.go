package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// modelClient is the slice of the OpenAI client the lister needs.
type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Lister lists the OpenAI models usable for translation.
type Lister struct {
	apiKey string
	client modelClient
}

// NewLister creates a new model lister.
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ListAvailableModels prints the chat models available with the
// configured API key to w.
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .lingocard.yaml")
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	chatModels := chatModelIDs(list)

	fmt.Fprintln(w, "Available translation models:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	return nil
}

// chatModelIDs filters the model list down to chat-capable models,
// sorted by ID.
func chatModelIDs(list openai.ModelsList) []string {
	var ids []string
	for _, model := range list.Models {
		id := model.ID
		// Audio and image variants cannot translate text.
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "dall-e") || strings.Contains(id, "whisper") {
			continue
		}
		if strings.Contains(id, "gpt") || strings.Contains(id, "chat") {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
