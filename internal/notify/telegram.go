// Package notify delivers early-warning alerts. The Telegram notifier
// formats ranked rising issues into a MarkdownV2 message and sends it
// with bounded retries and send-rate limiting.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/worker"
)

// TelegramNotifier sends rising-issue alerts to one chat
type TelegramNotifier struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryDelay time.Duration
	gate       *worker.Gate
}

// NewTelegramNotifier creates a notifier from configuration
func NewTelegramNotifier(cfg model.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &TelegramNotifier{
		bot:        bot,
		chatID:     chatID,
		maxRetries: maxRetries,
		retryDelay: time.Second,
		gate:       worker.NewGate(cfg.SendsPerMinute/60.0, 1),
	}, nil
}

// SendRisingIssues formats and delivers one alert for the ranked issues.
// An empty ranking sends nothing.
func (n *TelegramNotifier) SendRisingIssues(ctx context.Context, issues []model.RisingIssue) error {
	if len(issues) == 0 {
		return nil
	}
	if err := n.gate.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, formatRisingMessage(issues))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		if _, err := n.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay * time.Duration(i+1)):
		}
	}
	return fmt.Errorf("send after %d retries: %w", n.maxRetries, lastErr)
}

// formatRisingMessage renders the ranked issues as MarkdownV2
func formatRisingMessage(issues []model.RisingIssue) string {
	message := "⚠️ *Rising Issues Detected*\n\n"
	if len(issues) > 0 {
		message += fmt.Sprintf("📅 Computed: %s\n\n",
			escapeMarkdownV2(issues[0].ComputedAt.Format("2006-01-02 15:04:05")))
	}

	for i, issue := range issues {
		topic := escapeMarkdownV2(issue.Topic)
		area := escapeMarkdownV2(issue.ProductArea)
		velocity := escapeMarkdownV2(fmt.Sprintf("%.1f/h", issue.Velocity))
		users := escapeMarkdownV2(fmt.Sprintf("~%d", issue.EstimatedUsers))

		message += fmt.Sprintf("%d\\. *%s* \\(%s\\)\n", i+1, topic, area)
		message += fmt.Sprintf("   📈 Velocity: %s, intensity %d → %s\n",
			velocity, issue.CurrentIntensity,
			escapeMarkdownV2(fmt.Sprintf("%.0f", issue.ProjectedIntensity)))
		if issue.TimeToCritical > 0 {
			message += fmt.Sprintf("   ⏱ Critical in %s\n",
				escapeMarkdownV2(fmt.Sprintf("%.1fh", issue.TimeToCritical)))
		}
		message += fmt.Sprintf("   👥 Est\\. affected users: %s\n\n", users)
	}
	return message
}

// escapeMarkdownV2 escapes Telegram MarkdownV2 special characters
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
