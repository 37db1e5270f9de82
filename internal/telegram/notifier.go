// Package telegram posts complaint events to an admin chat through the
// Telegram Bot API and answers a few read-only commands there.
package telegram

import (
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// notifyQueueSize bounds the events waiting for Telegram.
const notifyQueueSize = 64

// ErrQueueFull is returned when an event is dropped because Run has
// fallen behind.
var ErrQueueFull = errors.New("telegram: notification queue full")

// Notifier sends one message per complaint event to the admin chat.
// Events are queued and sent by Run, so a slow Telegram API never holds up
// the request that produced them.
type Notifier struct {
	Sender    Sender
	ChatID    int64
	Language  string
	Localizer *localization.Localizer
	queue     chan models.ComplaintEvent
	log       *zap.Logger
}

func NewNotifier(sender Sender, chatID int64, language string, localizer *localization.Localizer, log *zap.Logger) *Notifier {
	return &Notifier{
		Sender:    sender,
		ChatID:    chatID,
		Language:  language,
		Localizer: localizer,
		queue:     make(chan models.ComplaintEvent, notifyQueueSize),
		log:       log,
	}
}

// NotifyComplaintEvent implements complaint.Notifier. It only queues the
// event.
func (n *Notifier) NotifyComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	select {
	case n.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("%w: dropped %s event for %s", ErrQueueFull, event.Type, event.ComplaintID)
	}
}

// Run sends queued events until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.queue:
			if err := n.send(event); err != nil {
				n.log.Warn("telegram notification failed",
					zap.String("complaint_id", event.ComplaintID),
					zap.String("type", string(event.Type)),
					zap.Error(err),
				)
			}
		}
	}
}

func (n *Notifier) send(event models.ComplaintEvent) error {
	msg := tgbotapi.NewMessage(n.ChatID, n.formatEvent(event))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if _, err := n.Sender.Send(msg); err != nil {
		return fmt.Errorf("telegram: send %s event for %s: %w", event.Type, event.ComplaintID, err)
	}
	n.log.Debug("complaint event sent to telegram",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("type", string(event.Type)),
	)
	return nil
}

func (n *Notifier) formatEvent(event models.ComplaintEvent) string {
	t := func(key string) string { return n.Localizer.GetString(n.Language, key) }

	agency := t("notify.unassigned")
	if event.AssignedToAgencyID != nil {
		agency = *event.AssignedToAgencyID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdownV2(t("event."+string(event.Type))))
	fmt.Fprintf(&b, "%s\n", escapeMarkdownV2(event.Title))
	fmt.Fprintf(&b, "%s: %s\n", escapeMarkdownV2(t("notify.status")), escapeMarkdownV2(n.Localizer.StatusLabel(n.Language, event.Status)))
	fmt.Fprintf(&b, "%s: %s\n", escapeMarkdownV2(t("notify.agency")), escapeMarkdownV2(agency))
	fmt.Fprintf(&b, "`%s`", escapeCode(event.ComplaintID))
	return b.String()
}

var markdownV2Replacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// escapeMarkdownV2 escapes every character MarkdownV2 reserves outside of
// code entities.
func escapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

var codeReplacer = strings.NewReplacer("\\", "\\\\", "`", "\\`")

func escapeCode(text string) string {
	return codeReplacer.Replace(text)
}
