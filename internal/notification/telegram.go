package notification

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
)

// DefaultTelegramBaseURL is the Telegram Bot API endpoint.
const DefaultTelegramBaseURL = "https://api.telegram.org"

// TelegramConfig configures the Telegram notifier.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Timeout  time.Duration
}

// TelegramNotifier sends messages via the Telegram Bot API sendMessage method.
type TelegramNotifier struct {
	chatID string
	token  string
	client *resty.Client
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewTelegramNotifier creates a Telegram notifier. Token and chat ID are required.
func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, errors.New(errors.ErrCodeNotifierDisabled, "telegram bot token or chat id missing")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultTelegramBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &TelegramNotifier{
		chatID: cfg.ChatID,
		token:  cfg.BotToken,
		client: client,
	}, nil
}

// Send implements Notifier.
func (t *TelegramNotifier) Send(ctx context.Context, msg Message) error {
	var result telegramResponse

	resp, err := t.client.R().
		SetContext(ctx).
		SetPathParam("token", t.token).
		SetBody(sendMessageRequest{
			ChatID:                t.chatID,
			Text:                  msg.Text,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationFailed, "telegram: send", err)
	}

	if resp.IsError() || !result.OK {
		return errors.Newf(errors.ErrCodeNotificationFailed, "telegram: status %d: %s", resp.StatusCode(), result.Description)
	}

	return nil
}
