package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"assistant/internal/capabilities"
	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/services"
	domainllm "assistant/internal/domain/services/llm"
	"assistant/internal/metrics"
	"assistant/internal/service/llm"
)

// Outcomes recorded for each generation
const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
	outcomeUpstream  = "upstream_error"
	outcomePersist   = "persist_error"
)

// ProviderResolver maps a model string to the provider serving it
type ProviderResolver interface {
	ProviderFor(model string) (domainllm.LLMProvider, *llm.ModelInfo, error)
}

// CapabilityLookup returns catalog entries for models
type CapabilityLookup interface {
	GetModelCapabilities(provider, model string) (*capabilities.ModelCapabilities, error)
}

// Defaults used when neither the request nor the model catalog decides
type Defaults struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultsFromConfig reads generation defaults from the server configuration
func DefaultsFromConfig(cfg *config.Config) Defaults {
	return Defaults{
		Model:       cfg.ModelName,
		MaxTokens:   cfg.GenerationMaxTokens,
		Temperature: cfg.GenerationTemperature,
	}
}

// Service implements services.GenerationService
type Service struct {
	dialogs      services.DialogService
	prompts      services.PromptService
	providers    ProviderResolver
	capabilities CapabilityLookup
	guard        *Guard
	defaults     Defaults
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewService creates a generation service. capabilities and m may be nil.
func NewService(
	dialogs services.DialogService,
	prompts services.PromptService,
	providers ProviderResolver,
	capabilities CapabilityLookup,
	guard *Guard,
	defaults Defaults,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		dialogs:      dialogs,
		prompts:      prompts,
		providers:    providers,
		capabilities: capabilities,
		guard:        guard,
		defaults:     defaults,
		metrics:      m,
		logger:       logger,
	}
}

var _ services.GenerationService = (*Service)(nil)

// Generate streams a completion for the dialog and records the exchange
// once the upstream stream has finished.
func (s *Service) Generate(ctx context.Context, req *services.GenerateRequest, emit services.EmitFunc) error {
	if !s.guard.Allow() {
		s.metrics.RecordRateLimited()
		s.logger.Warn("generation rejected by rate guard")
		return domain.ErrRateLimited
	}

	if req == nil {
		return domain.ErrNoData
	}
	if err := validateRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.dialogs.Exists(ctx, req.DialogID); err != nil {
		return err
	}

	messages, err := s.buildMessages(ctx, req)
	if err != nil {
		return err
	}

	provider, chatReq, err := s.resolve(req.Model, messages)
	if err != nil {
		return err
	}

	s.logger.Debug("generation started",
		"dialog_id", req.DialogID,
		"provider", provider.Name(),
		"model", chatReq.Model,
		"messages", len(chatReq.Messages),
		"guard_remaining", s.guard.Remaining(),
	)

	done := s.metrics.GenerationStarted()
	reply, err := s.stream(ctx, provider, chatReq, emit)
	if err != nil {
		if ctx.Err() != nil {
			done(outcomeCancelled)
			s.logger.Info("generation cancelled", "dialog_id", req.DialogID, "received_chars", len(reply))
			return ctx.Err()
		}
		if errors.Is(err, domain.ErrUpstream) {
			done(outcomeUpstream)
			s.logger.Error("upstream stream failed", "dialog_id", req.DialogID, "error", err)
		} else {
			done(outcomeCancelled)
			s.logger.Info("generation aborted by consumer", "dialog_id", req.DialogID, "error", err)
		}
		return err
	}

	// The exchange finished upstream, so it is recorded even if the client
	// went away right after the last fragment.
	exchange := []models.Message{
		{Role: models.RoleUser, Content: req.UserInput},
		{Role: models.RoleAssistant, Content: reply},
	}
	if err := s.dialogs.RecordExchange(context.WithoutCancel(ctx), req.DialogID, exchange); err != nil {
		done(outcomePersist)
		s.logger.Error("failed to record exchange", "dialog_id", req.DialogID, "error", err)
		return fmt.Errorf("record exchange: %w", err)
	}

	done(outcomeCompleted)
	s.logger.Info("generation completed",
		"dialog_id", req.DialogID,
		"model", chatReq.Model,
		"reply_chars", len(reply),
	)
	return nil
}

// stream forwards fragments to emit and returns the concatenated reply.
// Empty fragments are dropped.
func (s *Service) stream(ctx context.Context, provider domainllm.LLMProvider, chatReq *domainllm.ChatRequest, emit services.EmitFunc) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments, err := provider.StreamChat(ctx, chatReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer fragments.Close()

	var reply strings.Builder
	for {
		frag, err := fragments.Recv()
		if errors.Is(err, io.EOF) {
			return reply.String(), nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return reply.String(), ctx.Err()
			}
			return reply.String(), fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		if frag == "" {
			continue
		}

		reply.WriteString(frag)
		s.metrics.RecordFragment()
		if err := emit(frag); err != nil {
			return reply.String(), err
		}
	}
}

// buildMessages assembles the conversation sent upstream: the stored prompt
// as system message, the supplied history, then the user input unless the
// history already ends with it.
func (s *Service) buildMessages(ctx context.Context, req *services.GenerateRequest) ([]models.Message, error) {
	messages := make([]models.Message, 0, len(req.Messages)+2)

	if req.PromptID != "" {
		prompt, err := s.prompts.GetPrompt(ctx, req.PromptID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, models.Message{Role: models.RoleSystem, Content: prompt.PromptContent})
	}

	messages = append(messages, req.Messages...)

	last := len(messages) - 1
	if last < 0 || messages[last].Role != models.RoleUser || messages[last].Content != req.UserInput {
		messages = append(messages, models.Message{Role: models.RoleUser, Content: req.UserInput})
	}
	return messages, nil
}

// resolve picks the provider and generation parameters for the model
func (s *Service) resolve(model string, messages []models.Message) (domainllm.LLMProvider, *domainllm.ChatRequest, error) {
	if model == "" {
		model = s.defaults.Model
	}

	provider, info, err := s.providers.ProviderFor(model)
	if errors.Is(err, llm.ErrUnsupportedModel) {
		return nil, nil, fmt.Errorf("%w: model %q: %v", domain.ErrValidation, model, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve model %q: %w", model, err)
	}

	chatReq := &domainllm.ChatRequest{
		Model:       info.Model,
		Messages:    messages,
		MaxTokens:   s.defaults.MaxTokens,
		Temperature: s.defaults.Temperature,
	}

	if s.capabilities != nil {
		caps, err := s.capabilities.GetModelCapabilities(info.Provider, info.Model)
		if err != nil {
			s.logger.Debug("model not in catalog, using defaults", "model", info.String())
		} else {
			if caps.Defaults.MaxTokens > 0 {
				chatReq.MaxTokens = caps.Defaults.MaxTokens
			}
			if caps.Defaults.Temperature != nil {
				chatReq.Temperature = *caps.Defaults.Temperature
			}
		}
	}

	return provider, chatReq, nil
}

func validateRequest(req *services.GenerateRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DialogID, validation.Required),
		validation.Field(&req.UserInput,
			validation.Required,
			validation.Length(1, config.MaxMessageContentLength),
		),
		validation.Field(&req.Messages, validation.Length(0, config.MaxHistoryMessages)),
	); err != nil {
		return err
	}

	for i := range req.Messages {
		m := &req.Messages[i]
		if err := validation.ValidateStruct(m,
			validation.Field(&m.Role, validation.Required),
			validation.Field(&m.Content, validation.Length(0, config.MaxMessageContentLength)),
		); err != nil {
			return fmt.Errorf("message %d: %v", i, err)
		}
	}
	return nil
}
