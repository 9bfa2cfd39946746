// Package notifier delivers deals to a Telegram channel.
package notifier

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"ofertasflash/dealbot/internal/deal"
	"ofertasflash/dealbot/logger"
	"ofertasflash/dealbot/pkg/errors"
	"ofertasflash/dealbot/pkg/retry"
)

// titleMaxLen caps the title inside the templated caption
const titleMaxLen = 100

// botAPI is the slice of the Telegram bot API the notifier needs
type botAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
}

// Result reports the delivery outcome for one deal
type Result struct {
	DealID      string
	Success     bool
	MessageType string // "photo" or "text"
	Err         error
}

// Notifier posts deals to one Telegram channel with pacing between
// messages
type Notifier struct {
	bot       botAPI
	chatID    telego.ChatID
	delay     time.Duration
	policy    retry.Policy
	log       *logger.Logger
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// New creates a notifier for the given channel. The channel id accepts
// both the @username and the numeric -100... forms.
func New(token, channelID string, delay time.Duration, sendRetries int) (*Notifier, error) {
	bot, err := telego.NewBot(token, telego.WithDiscardLogger())
	if err != nil {
		return nil, errors.NewConfiguration("create telegram bot", err)
	}
	return newWithBot(bot, channelID, delay, sendRetries), nil
}

func newWithBot(bot botAPI, channelID string, delay time.Duration, sendRetries int) *Notifier {
	return &Notifier{
		bot:    bot,
		chatID: resolveChatID(channelID),
		delay:  delay,
		policy: retry.Policy{
			MaxAttempts: sendRetries,
			Backoff:     retry.ExponentialBackoff(time.Second),
		},
		log: logger.ForNotifier(),
	}
}

// resolveChatID maps a channel id string onto a telego ChatID. Bare
// channel names get the @ prefix added.
func resolveChatID(channelID string) telego.ChatID {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return tu.ID(id)
	}
	if !strings.HasPrefix(channelID, "@") {
		channelID = "@" + channelID
	}
	return telego.ChatID{Username: channelID}
}

// SendDeals delivers a batch sequentially with the configured delay
// between messages. A failed send is recorded and never aborts the
// batch.
func (n *Notifier) SendDeals(ctx context.Context, deals []deal.Deal) []Result {
	results := make([]Result, 0, len(deals))
	for i, d := range deals {
		if i > 0 {
			if err := n.sleep(ctx, n.delay); err != nil {
				results = append(results, Result{DealID: d.ID, Err: err})
				continue
			}
		}

		res := n.SendDeal(ctx, d)
		if res.Err != nil {
			n.log.Warn().Err(res.Err).Str("deal_id", d.ID).Msg("Telegram send failed")
		} else {
			n.log.Info().Str("deal_id", d.ID).Str("type", res.MessageType).Msg("Deal posted")
		}
		results = append(results, res)
	}
	return results
}

// SendDeal posts one deal. A valid image URL gets a photo message with
// the copy as caption; otherwise a plain text message. A photo failure
// falls back to text before giving up.
func (n *Notifier) SendDeal(ctx context.Context, d deal.Deal) Result {
	message := d.TelegramMessage
	if message == "" {
		message = FormatDealMessage(d)
	}

	if IsValidImageURL(d.ImageURL) {
		err := n.sendWithRetry(ctx, func(sendCtx context.Context) error {
			params := tu.Photo(n.chatID, tu.FileFromURL(d.ImageURL)).
				WithCaption(message).
				WithParseMode(telego.ModeHTML)
			_, sendErr := n.bot.SendPhoto(sendCtx, params)
			return sendErr
		})
		if err == nil {
			return Result{DealID: d.ID, Success: true, MessageType: "photo"}
		}
		n.log.Debug().Err(err).Str("deal_id", d.ID).Msg("Photo send failed, falling back to text")
	}

	err := n.sendWithRetry(ctx, func(sendCtx context.Context) error {
		params := tu.Message(n.chatID, message).WithParseMode(telego.ModeHTML)
		_, sendErr := n.bot.SendMessage(sendCtx, params)
		return sendErr
	})
	if err != nil {
		return Result{DealID: d.ID, Err: errors.NewNotify("telegram", "send message", err)}
	}
	return Result{DealID: d.ID, Success: true, MessageType: "text"}
}

func (n *Notifier) sendWithRetry(ctx context.Context, send func(context.Context) error) error {
	policy := n.policy
	policy.Sleep = n.sleepFunc
	return policy.Do(ctx, func(int) error {
		return send(ctx)
	})
}

func (n *Notifier) sleep(ctx context.Context, d time.Duration) error {
	if n.sleepFunc != nil {
		return n.sleepFunc(ctx, d)
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FormatDealMessage renders the HTML template used when no generated
// copy is attached to the deal
func FormatDealMessage(d deal.Deal) string {
	emoji := "💰"
	switch {
	case d.Discount >= 50:
		emoji = "🔥🔥"
	case d.Discount >= 30:
		emoji = "🔥"
	}

	title := d.Title
	if runes := []rune(title); len(runes) > titleMaxLen {
		title = string(runes[:titleMaxLen])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>¡OFERTA!</b> %s\n\n", emoji, escapeHTML(title))
	fmt.Fprintf(&b, "💰 <s>%.2f€</s> → <b>%.2f€</b>\n", d.OriginalPrice, d.CurrentPrice)
	fmt.Fprintf(&b, "📉 <b>-%d%%</b> = Ahorras %.2f€\n", d.Discount, d.Savings())
	fmt.Fprintf(&b, "🏪 %s\n", d.ProviderName)
	if d.TimeLeft != "" {
		fmt.Fprintf(&b, "⏰ %s\n", d.TimeLeft)
	}
	fmt.Fprintf(&b, "\n👉 %s\n\n", d.AffiliateLink)
	fmt.Fprintf(&b, "#Oferta #%s #Ahorro", capitalize(d.Category))
	return b.String()
}

// IsValidImageURL reports whether a URL can back a Telegram photo
// message
func IsValidImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	return strings.ReplaceAll(text, ">", "&gt;")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
