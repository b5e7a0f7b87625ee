package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/botdock/pkg/audit"
	"github.com/platinummonkey/botdock/pkg/auth"
	"github.com/platinummonkey/botdock/pkg/storage"
)

// CreateBotInput is the operator-supplied part of a new bot
type CreateBotInput struct {
	Name           string
	Instructions   string
	AllowedDomains []string
}

// BotService manages the bot lifecycle. Mutations are owner-only; the public
// projection is readable by anyone.
type BotService struct {
	bots   storage.BotStore
	tokens *auth.TokenGenerator
	audit  *audit.Recorder
	log    logrus.FieldLogger
}

// NewBotService creates a bot service. recorder may be nil.
func NewBotService(bots storage.BotStore, recorder *audit.Recorder, log logrus.FieldLogger) *BotService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BotService{
		bots:   bots,
		tokens: auth.NewTokenGenerator(),
		audit:  recorder,
		log:    log,
	}
}

// Create stores a new bot owned by the caller
func (s *BotService) Create(ctx context.Context, identity *auth.Identity, in CreateBotInput) (*storage.Bot, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Instructions) == "" {
		return nil, invalid("Name and instructions are required")
	}

	domains := in.AllowedDomains
	if domains == nil {
		domains = []string{}
	}

	id, err := s.tokens.NewID()
	if err != nil {
		return nil, internalErr("generate bot id", err)
	}

	bot := &storage.Bot{
		ID:             id,
		OwnerID:        identity.ID,
		Name:           in.Name,
		Instructions:   in.Instructions,
		AllowedDomains: domains,
	}
	if err := s.bots.CreateBot(ctx, bot); err != nil {
		s.audit.Failure(ctx, audit.EventTypeDataBotCreate, "bot creation failed", err)
		return nil, storeErr("create bot", err)
	}

	s.audit.Success(ctx, audit.EventTypeDataBotCreate, audit.ResourceTypeBot, bot.ID, "bot created")
	return bot, nil
}

// ListMine returns the caller's bots, newest first
func (s *BotService) ListMine(ctx context.Context, identity *auth.Identity) ([]*storage.Bot, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	bots, err := s.bots.ListBotsByOwner(ctx, identity.ID)
	if err != nil {
		return nil, storeErr("list bots", err)
	}
	return bots, nil
}

// GetPublic returns the anonymous projection of a bot
func (s *BotService) GetPublic(ctx context.Context, id string) (*storage.PublicBot, error) {
	pub, err := s.bots.GetPublicBot(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get public bot", err)
	}
	return pub, nil
}

// Delete removes a bot owned by the caller. A bot owned by someone else is
// reported exactly like a missing one.
func (s *BotService) Delete(ctx context.Context, identity *auth.Identity, id string) error {
	if identity == nil {
		return ErrUnauthenticated
	}

	n, err := s.bots.DeleteBotOwnedBy(ctx, id, identity.ID)
	if err != nil {
		return storeErr("delete bot", err)
	}
	if n == 0 {
		s.recordMissedDelete(ctx, identity, id)
		return ErrNotFound
	}

	s.audit.Success(ctx, audit.EventTypeDataBotDelete, audit.ResourceTypeBot, id, "bot deleted")
	return nil
}

// recordMissedDelete tells a denial apart from a missing bot for the audit
// trail only; the caller always sees ErrNotFound
func (s *BotService) recordMissedDelete(ctx context.Context, identity *auth.Identity, id string) {
	bot, err := s.bots.GetBot(ctx, id)
	switch {
	case err == nil && !auth.CanMutate(identity, bot.OwnerID):
		s.audit.Denied(ctx, audit.ResourceTypeBot, id, "caller does not own bot")
	case err == nil || errors.Is(err, storage.ErrNotFound):
		event := audit.NewEvent(ctx, audit.EventTypeDataBotDelete, audit.EventStatusFailure)
		event.ResourceType = audit.ResourceTypeBot
		event.ResourceID = id
		event.Message = "bot not found"
		s.audit.Record(ctx, event)
	default:
		s.log.WithError(err).WithField("bot_id", id).Warn("failed to classify rejected bot delete")
	}
}
