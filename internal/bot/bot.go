// internal/bot/bot.go
package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nutrition-bot/internal/config"
)

// Bot connects the Telegram transport to the dialog engine. Updates are
// handled sequentially on one goroutine so conversation state never
// races and replies keep arrival order.
type Bot struct {
	api          *tgbotapi.BotAPI
	dialog       *Dialog
	authorizedID int64
	httpClient   *http.Client
}

func New(cfg *config.Config, store Store, est Estimator) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	return &Bot{
		api:          api,
		dialog:       NewDialog(store, est, cfg.AuthorizedUserID, cfg.ClarifyRounds, cfg.RefineWindow, loc),
		authorizedID: cfg.AuthorizedUserID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Run polls Telegram for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	// Single-user bot: strangers get one refusal on /start and silence
	// otherwise.
	if msg.From.ID != b.authorizedID {
		log.Printf("ignoring update from user %d", msg.From.ID)
		if msg.IsCommand() && msg.Command() == "start" {
			b.send(msg.Chat.ID, privateReply)
		}
		return
	}

	var replies []string
	switch {
	case msg.IsCommand():
		replies = b.dialog.HandleCommand(ctx, msg.Command())
	case len(msg.Photo) > 0:
		data, mimeType, err := b.downloadPhoto(ctx, msg.Photo)
		if err != nil {
			log.Printf("download photo: %v", err)
			replies = []string{downloadReply}
		} else {
			replies = b.dialog.HandlePhoto(ctx, data, mimeType)
		}
	case msg.Text != "":
		replies = b.dialog.HandleText(ctx, msg.Text)
	default:
		// Stickers, voice notes and other media are ignored.
		return
	}

	for _, reply := range replies {
		b.send(msg.Chat.ID, reply)
	}
}

// downloadPhoto fetches the highest-resolution variant Telegram offers.
// Telegram sorts PhotoSize ascending, so the last entry is the largest.
func (b *Bot) downloadPhoto(ctx context.Context, sizes []tgbotapi.PhotoSize) ([]byte, string, error) {
	best := sizes[len(sizes)-1]

	url, err := b.api.GetFileDirectURL(best.FileID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("photo download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read photo: %w", err)
	}

	// Telegram re-encodes uploaded photos as JPEG.
	return data, "image/jpeg", nil
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send message: %v", err)
	}
}
