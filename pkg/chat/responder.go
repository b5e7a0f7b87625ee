package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/contextkeys"
	"github.com/platinummonkey/botdock/pkg/service"
	"github.com/platinummonkey/botdock/pkg/storage"
)

// ErrUpstream means the model call failed. Details are logged, not returned
// to the visitor.
var ErrUpstream = errors.New("failed to process message")

// BotLookup loads a bot including its instructions
type BotLookup interface {
	GetBot(ctx context.Context, id string) (*storage.Bot, error)
}

// Responder answers anonymous widget visitors on behalf of a bot
type Responder struct {
	bots   BotLookup
	model  Model
	logger logrus.FieldLogger
}

// NewResponder creates a responder
func NewResponder(bots BotLookup, model Model, logger logrus.FieldLogger) *Responder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Responder{bots: bots, model: model, logger: logger}
}

// Reply forwards message, framed by the bot's instructions, to the model and
// returns its text verbatim
func (r *Responder) Reply(ctx context.Context, botID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &service.ValidationError{Message: "Message is required"}
	}

	bot, err := r.bots.GetBot(ctx, botID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", service.ErrNotFound
		}
		return "", fmt.Errorf("%w: get bot: %w", service.ErrStore, err)
	}

	prompt, err := BuildPrompt(bot.Instructions, message)
	if err != nil {
		return "", fmt.Errorf("%w: render prompt: %w", service.ErrInternal, err)
	}

	reply, err := r.model.GenerateContent(ctx, prompt)
	if err != nil {
		contextkeys.Logger(ctx, r.logger).WithError(err).WithField("bot_id", botID).Error("model call failed")
		return "", ErrUpstream
	}
	return reply, nil
}
