package telegram

import (
	"context"
	"errors"
	"fmt"

	"TrenchScan/internal/domain/repository"
)

// Transport adapts the Bot API client to the domain Transport interface.
// All messages go out in Markdown mode; the Bot API's "message is not
// modified" rejection is translated to repository.ErrNotModified so callers
// never have to inspect wire errors.
type Transport struct {
	client *Client
}

// NewTransport creates a Transport over a Bot API client.
func NewTransport(client *Client) *Transport {
	return &Transport{client: client}
}

// Send creates a new message and returns its handle for later edits.
func (t *Transport) Send(ctx context.Context, chatID int64, text string) (repository.MessageRef, error) {
	msg, err := t.client.SendMessage(ctx, SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeMarkdown,
	})
	if err != nil {
		return repository.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return repository.MessageRef{ChatID: chatID, MessageID: msg.MessageID}, nil
}

// Edit replaces the text of a previously sent message.
func (t *Transport) Edit(ctx context.Context, ref repository.MessageRef, text string) error {
	_, err := t.client.EditMessageText(ctx, EditMessageTextRequest{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
		Text:      text,
		ParseMode: ParseModeMarkdown,
	})
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsNotModified() {
		return fmt.Errorf("%w: %s", repository.ErrNotModified, apiErr.Description)
	}
	return fmt.Errorf("edit message: %w", err)
}
