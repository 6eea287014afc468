// Package gemini is the sole boundary to the Gemini API. Structured calls
// carry a system instruction, user content and a response schema; chat opens
// a streaming conversation seeded with client-submitted history.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/bionovax/bionova/internal/types"
)

// Provider is the model boundary seen by the request handlers. The concrete
// client is injected at startup so tests can substitute a stub.
type Provider interface {
	// GenerateJSON runs one structured generation and returns the raw JSON
	// payload, already validated against the schema for kind.
	GenerateJSON(ctx context.Context, system, user string, kind SchemaKind) (json.RawMessage, error)

	// StreamChat opens a conversation with the given system instruction and
	// history, sends message, and returns the model's reply as an ordered
	// stream of text fragments.
	StreamChat(ctx context.Context, system string, history []types.ChatTurn, message string) (ChatStream, error)
}

// ChatStream yields text fragments in arrival order. Next returns io.EOF
// when the model's fragment sequence ends; any other error terminates the
// stream early. Close releases the underlying iterator and must be called
// once the caller stops reading, whatever the reason.
type ChatStream interface {
	Next() (string, error)
	Close()
}

// Client implements Provider on top of google.golang.org/genai. Lifecycle is
// process start to process shutdown.
type Client struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// NewClient creates a Gemini client for the given API key and model.
func NewClient(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client, model: model, logger: logger}, nil
}

// GenerateJSON implements Provider.
func (c *Client) GenerateJSON(ctx context.Context, system, user string, kind SchemaKind) (json.RawMessage, error) {
	schema, err := genaiSchemaFor(kind)
	if err != nil {
		return nil, providerErr("generate", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	if err != nil {
		return nil, providerErr("generate", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, providerErr("generate", fmt.Errorf("empty response from model"))
	}

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, providerErr("parse", err)
	}

	if err := ValidateResponse(kind, payload); err != nil {
		return nil, providerErr("schema", err)
	}

	c.logger.Debug().Str("schema", kind.String()).Int("bytes", len(text)).Msg("structured generation complete")
	return json.RawMessage(text), nil
}

// StreamChat implements Provider. The returned stream reads fragments lazily
// so cancellation of ctx stops the upstream call mid-flight.
func (c *Client) StreamChat(ctx context.Context, system string, history []types.ChatTurn, message string) (ChatStream, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{Role: turn.Role, Parts: parts})
	}

	chat, err := c.client.Chats.Create(ctx, c.model, config, contents)
	if err != nil {
		return nil, providerErr("chat", err)
	}

	next, stop := iter.Pull2(chat.SendMessageStream(ctx, genai.Part{Text: message}))
	return &chatStream{next: next, stop: stop}, nil
}

type chatStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func (s *chatStream) Next() (string, error) {
	for {
		resp, err, ok := s.next()
		if !ok {
			return "", io.EOF
		}
		if err != nil {
			return "", providerErr("stream", err)
		}
		if text := resp.Text(); text != "" {
			return text, nil
		}
		// Skip keep-alive chunks that carry no text.
	}
}

// Close releases the pull iterator. Safe to call more than once.
func (s *chatStream) Close() {
	s.stop()
}
