package notify

import (
	"context"
	"fmt"
	"net/http"
)

// DiscordSender posts activity alerts to a Discord channel webhook.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a sender for the given channel webhook URL.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     newWebhookClient(),
	}
}

type discordMessage struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// Send posts the alert to the webhook, title bolded above the body.
func (d *DiscordSender) Send(ctx context.Context, title, message string) error {
	msg := discordMessage{
		Username: "clawdash",
		Content:  fmt.Sprintf("**%s**\n%s", title, message),
	}
	return postJSON(ctx, d.client, d.Name(), d.webhookURL, msg)
}

// Name returns the channel identifier used in logs.
func (d *DiscordSender) Name() string {
	return "discord"
}
