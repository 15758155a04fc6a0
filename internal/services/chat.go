package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"charmtap/internal/datastore"
	"charmtap/internal/interfaces"
	"charmtap/internal/models"
	"charmtap/internal/pkg/caching"

	"github.com/go-redis/redis_rate/v10"
	"github.com/gojek/heimdall/v7/hystrix"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

const chatHistoryLimit = 20

type completionRequest struct {
	Persona string   `json:"persona"`
	History []string `json:"history,omitempty"`
	Message string   `json:"message"`
}

type completionResponse struct {
	Reply string `json:"reply"`
}

type ServiceChat struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	limiter            interfaces.Limiter

	serviceCatalog  *ServiceCatalog
	serviceConfig   *ServiceConfig
	serviceSelector *ServiceSelector
	serviceTrigger  *ServiceTrigger

	completionURL string
	httpClient    *hystrix.Client
}

func NewServiceChat(container *do.Injector) (*ServiceChat, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	serviceCatalog, err := do.Invoke[*ServiceCatalog](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceSelector, err := do.Invoke[*ServiceSelector](container)
	if err != nil {
		return nil, err
	}

	serviceTrigger, err := do.Invoke[*ServiceTrigger](container)
	if err != nil {
		return nil, err
	}

	vs := do.MustInvokeNamed[map[string]string](container, "envs")

	client := hystrix.NewClient(
		hystrix.WithHTTPTimeout(10*time.Second),
		hystrix.WithCommandName("chat-completion"),
		hystrix.WithHystrixTimeout(12*time.Second),
		hystrix.WithMaxConcurrentRequests(64),
		hystrix.WithErrorPercentThreshold(25),
		hystrix.WithRetryCount(1),
	)

	return &ServiceChat{
		container:          container,
		redisDB:            db,
		postgresDB:         postgresDB,
		readonlyPostgresDB: readonlyPostgresDB,
		cache:              cache,
		readonlyCache:      readonlyCache,
		limiter:            limiter,
		serviceCatalog:     serviceCatalog,
		serviceConfig:      serviceConfig,
		serviceSelector:    serviceSelector,
		serviceTrigger:     serviceTrigger,
		completionURL:      vs["CHAT_COMPLETION_URL"],
		httpClient:         client,
	}, nil
}

func (service *ServiceChat) GetHistory(ctx context.Context, user *models.User, characterSlug string) ([]models.ChatMessage, error) {
	character, err := service.serviceCatalog.FindCharacterBySlug(ctx, characterSlug)
	if err != nil || character == nil || !character.Enabled {
		return nil, errorx.Wrap(errors.New("character not found"), errorx.NotExist)
	}

	return datastore.GetRecentChatMessages(ctx, service.readonlyPostgresDB, user.ID, character.Slug, chatHistoryLimit)
}

// HandleMessage stores the user's message, asks the completion backend for
// the character's reply and rolls for a media attachment. The booster nudge
// from keywords happens before the roll, so this message can already affect
// which media gets sent.
func (service *ServiceChat) HandleMessage(ctx context.Context, user *models.User, characterSlug string, text string) (*models.ChatReply, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if text == "" {
		return nil, errorx.Wrap(errors.New("empty message"), errorx.Validation)
	}

	err := service.limiter.Allow(ctx, LimitKeyUserChat(user.ID), redis_rate.PerMinute(CHAT_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.RateLimiting)
	}

	character, err := service.serviceCatalog.FindCharacterBySlug(ctx, characterSlug)
	if err != nil || character == nil || !character.Enabled {
		return nil, errorx.Wrap(errors.New("character not found"), errorx.NotExist)
	}

	// snapshot the history before storing this message, the completion
	// request already carries it as Message
	history, err := datastore.GetRecentChatMessages(ctx, service.readonlyPostgresDB, user.ID, character.Slug, chatHistoryLimit)
	if err != nil {
		log.Println("chat history:", err)
	}

	userMessage := &models.ChatMessage{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		CharacterSlug: character.Slug,
		Role:          models.ChatRoleUser,
		Text:          text,
		CreatedAt:     time.Now(),
	}
	err = datastore.InsertChatMessage(ctx, service.postgresDB, userMessage)
	if err != nil {
		return nil, err
	}

	service.serviceTrigger.RecordEvent(ctx, user.ID, EventChat, text)

	replyText := service.completeReply(character, history, text)

	media := service.rollMedia(ctx, user, character)

	characterMessage := &models.ChatMessage{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		CharacterSlug: character.Slug,
		Role:          models.ChatRoleCharacter,
		Text:          replyText,
		CreatedAt:     time.Now(),
	}
	if media != nil {
		characterMessage.MediaID = &media.ID
	}

	err = datastore.InsertChatMessage(ctx, service.postgresDB, characterMessage)
	if err != nil {
		return nil, err
	}

	return &models.ChatReply{
		Message: characterMessage,
		Media:   media,
	}, nil
}

// completeReply never fails the chat: any backend problem falls back to the
// character's canned reply. history must not include the message being
// answered.
func (service *ServiceChat) completeReply(character *models.Character, history []models.ChatMessage, text string) string {
	if service.completionURL == "" {
		return character.FallbackReply
	}

	body, err := json.Marshal(completionRequest{
		Persona: character.Persona,
		History: historyLines(history),
		Message: text,
	})
	if err != nil {
		return character.FallbackReply
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	res, err := service.httpClient.Post(service.completionURL, bytes.NewReader(body), headers)
	if err != nil {
		log.Println("chat completion:", err, "character:", character.Slug)
		return character.FallbackReply
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Println("chat completion status:", res.StatusCode, "character:", character.Slug)
		return character.FallbackReply
	}

	var completion completionResponse
	err = json.NewDecoder(res.Body).Decode(&completion)
	if err != nil || completion.Reply == "" {
		return character.FallbackReply
	}

	return completion.Reply
}

// historyLines renders "role: text" lines oldest-first; the datastore hands
// back messages newest-first.
func historyLines(history []models.ChatMessage) []string {
	lines := make([]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		lines = append(lines, history[i].Role+": "+history[i].Text)
	}
	return lines
}

// rollMedia decides whether the character attaches media to this reply and,
// if so, which item. Returns nil when nothing should be sent.
func (service *ServiceChat) rollMedia(ctx context.Context, user *models.User, character *models.Character) *models.MediaItem {
	percent, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_CHAT_MEDIA_SEND_PERCENT, CHAT_MEDIA_SEND_PERCENT_DEFAULT)
	if percent <= 0 {
		return nil
	}

	if service.serviceSelector.Roll()*100 >= float64(percent) {
		return nil
	}

	items, err := service.serviceCatalog.EligibleChatMedia(ctx, user, character.Slug)
	if err != nil {
		log.Println("chat media:", err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	candidates := make([]models.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, item.Candidate())
	}

	picked := service.serviceSelector.PickOne(user.ID, candidates)
	if picked == nil {
		return nil
	}

	for i := range items {
		if items[i].ID == picked.ID {
			return &items[i]
		}
	}

	return nil
}
