package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"assistant/internal/domain"
	"assistant/internal/domain/services"
	"assistant/internal/handler/sse"
	"assistant/internal/httputil"
)

// GenerateHandler streams completions over Server-Sent Events
type GenerateHandler struct {
	generation services.GenerationService
	sseConfig  *sse.Config
	logger     *slog.Logger
}

// NewGenerateHandler creates a new generate handler. A nil sseConfig uses
// sse.DefaultConfig.
func NewGenerateHandler(generation services.GenerationService, sseConfig *sse.Config, logger *slog.Logger) *GenerateHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &GenerateHandler{
		generation: generation,
		sseConfig:  sseConfig,
		logger:     logger,
	}
}

// Generate streams fragments as "data:" events and finishes with a "done"
// event. Errors before the first fragment are plain problem responses;
// afterwards they become an "error" event.
// POST /api/generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateRequest
	if !parseBody(w, r, &req) {
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		h.logger.Error("response writer cannot stream", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	if h.sseConfig.KeepAliveInterval > 0 {
		keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
		stopped := keepAlive.Start(writer, h.logger)
		defer func() {
			keepAlive.Stop()
			<-stopped
		}()
	}

	requestID := httputil.GetRequestID(r.Context())
	err = h.generation.Generate(r.Context(), &req, writer.Data)
	switch {
	case err == nil:
		if err := writer.Event("done", ""); err != nil {
			h.logger.Debug("client gone before done event", "request_id", requestID)
		}
	case r.Context().Err() != nil:
		h.logger.Info("client disconnected during generation",
			"dialog_id", req.DialogID,
			"request_id", requestID,
		)
	case !writer.Started():
		handleError(w, r, h.logger, err)
	default:
		message := "generation failed"
		if errors.Is(err, domain.ErrUpstream) {
			message = "language model request failed"
		}
		h.logger.Error("generation failed mid-stream",
			"dialog_id", req.DialogID,
			"request_id", requestID,
			"error", err,
		)
		_ = writer.Event("error", message)
	}
}
