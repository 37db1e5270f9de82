package telegram

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// adminViewer is the identity bot commands read complaints as.
var adminViewer = analysis.Viewer{Role: models.RoleAdmin, ID: "telegram"}

// ComplaintReader is the part of complaint.Service the bot commands use.
type ComplaintReader interface {
	Get(ctx context.Context, v analysis.Viewer, id string) (*models.Complaint, error)
	Dashboard(ctx context.Context, v analysis.Viewer) (*analysis.Summary, error)
}

// BotService answers commands sent from the admin chat. Messages from any
// other chat are ignored.
type BotService struct {
	BotAPI      *tgbotapi.BotAPI
	Sender      Sender
	Complaints  ComplaintReader
	Localizer   *localization.Localizer
	AdminChatID int64
	Language    string
	log         *zap.Logger
}

// apiTimeout caps every Bot API call. It must exceed the long-poll timeout
// used by Run.
const apiTimeout = 90 * time.Second

// NewBotAPI authorizes against Telegram with token.
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: apiTimeout})
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize: %w", err)
	}
	bot.Debug = false
	return bot, nil
}

func NewBotService(bot *tgbotapi.BotAPI, complaints ComplaintReader, localizer *localization.Localizer, adminChatID int64, language string, log *zap.Logger) *BotService {
	return &BotService{
		BotAPI:      bot,
		Sender:      bot,
		Complaints:  complaints,
		Localizer:   localizer,
		AdminChatID: adminChatID,
		Language:    language,
		log:         log,
	}
}

// Run long-polls for updates until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	s.log.Info("telegram bot started", zap.String("account", s.BotAPI.Self.UserName))
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)
	defer s.BotAPI.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			reply, handled := s.HandleCommand(ctx, update.Message)
			if !handled {
				continue
			}
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			msg.ParseMode = tgbotapi.ModeMarkdownV2
			if _, err := s.Sender.Send(msg); err != nil {
				s.log.Warn("telegram reply failed", zap.Error(err))
			}
		}
	}
}

// HandleCommand returns the MarkdownV2 reply to a command, or false when
// the message should be ignored.
func (s *BotService) HandleCommand(ctx context.Context, m *tgbotapi.Message) (string, bool) {
	if m.Chat == nil || m.Chat.ID != s.AdminChatID {
		return "", false
	}

	switch m.Command() {
	case "summary":
		return s.summary(ctx), true
	case "complaint":
		return s.complaint(ctx, strings.TrimSpace(m.CommandArguments())), true
	case "help", "start":
		return escapeMarkdownV2(s.t("bot.help")), true
	}
	return "", false
}

func (s *BotService) summary(ctx context.Context) string {
	sum, err := s.Complaints.Dashboard(ctx, adminViewer)
	if err != nil {
		s.log.Error("telegram summary failed", zap.Error(err))
		return escapeMarkdownV2(s.t("bot.summary_failed"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdownV2(fmt.Sprintf(s.t("bot.summary_header"), sum.Total, sum.ResolutionRate)))
	for _, st := range models.AllStatuses() {
		fmt.Fprintf(&b, "%s: %d\n", escapeMarkdownV2(s.Localizer.StatusLabel(s.Language, st)), sum.StatusCounts.Get(st))
	}
	fmt.Fprintf(&b, "%s", escapeMarkdownV2(fmt.Sprintf(s.t("bot.summary_recent"), config.RecentWindowDays, len(sum.Recent))))
	return b.String()
}

func (s *BotService) complaint(ctx context.Context, id string) string {
	if id == "" {
		return escapeMarkdownV2(s.t("bot.complaint_usage"))
	}
	c, err := s.Complaints.Get(ctx, adminViewer, id)
	if errors.Is(err, complaint.ErrNotFound) {
		return escapeMarkdownV2(s.t("bot.complaint_not_found"))
	}
	if err != nil {
		s.log.Error("telegram complaint lookup failed", zap.String("complaint_id", id), zap.Error(err))
		return escapeMarkdownV2(s.t("bot.complaint_failed"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", escapeMarkdownV2(c.Title))
	fmt.Fprintf(&b, "%s: %s\n",
		escapeMarkdownV2(s.t("notify.status")),
		escapeMarkdownV2(s.Localizer.StatusLabel(s.Language, c.Status)))
	if c.Category != nil {
		fmt.Fprintf(&b, "%s\n", escapeMarkdownV2(c.Category.Name))
	}
	fmt.Fprintf(&b, "`%s`", escapeCode(c.ID))
	return b.String()
}

func (s *BotService) t(key string) string {
	return s.Localizer.GetString(s.Language, key)
}
