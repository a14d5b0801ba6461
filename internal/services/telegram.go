package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	telegramBaseURL = "https://api.telegram.org"
	defaultTimeout  = 30 * time.Second
)

// TelegramClient talks to the Bot API. It implements both the Messenger
// send capability and the AdminChecker predicate.
type TelegramClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewTelegramClient creates a Bot API client for the given bot token
func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: telegramBaseURL,
		token:   token,
	}
}

// NewTelegramClientWithBase is NewTelegramClient with an overridable API
// host, used by tests
func NewTelegramClientWithBase(token, baseURL string) *TelegramClient {
	c := NewTelegramClient(token)
	c.baseURL = baseURL
	return c
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage delivers a text message to a chat
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string, mode ParseMode) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if mode != ParseModeNone {
		payload["parse_mode"] = string(mode)
		payload["disable_web_page_preview"] = true
	}
	_, err := c.call(ctx, "sendMessage", payload)
	return err
}

type chatMember struct {
	Status string `json:"status"`
}

// IsChatAdmin reports whether the user is an administrator or the creator
// of the chat. Lookup failures count as not-admin.
func (c *TelegramClient) IsChatAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	raw, err := c.call(ctx, "getChatMember", map[string]interface{}{
		"chat_id": chatID,
		"user_id": userID,
	})
	if err != nil {
		return false, err
	}
	var member chatMember
	if err := json.Unmarshal(raw, &member); err != nil {
		return false, fmt.Errorf("failed to parse chat member: %w", err)
	}
	return member.Status == "administrator" || member.Status == "creator", nil
}

func (c *TelegramClient) call(ctx context.Context, method string, payload map[string]interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var api apiResponse
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("%s rejected: %s", method, api.Description)
	}
	return api.Result, nil
}
