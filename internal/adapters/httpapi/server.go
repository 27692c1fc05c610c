// Package httpapi exposes the triage pipeline over HTTP using Fiber.
package httpapi

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ricardo/email-triage/internal/core"
)

// Server is the HTTP gateway for the triage pipeline.
type Server struct {
	app           *fiber.App
	service       *core.TriageService
	logger        *zap.Logger
	listenAddress string
}

// processRequest is the JSON body accepted by the process endpoint.
type processRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject"`
}

type classificationResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	ModelUsed  string  `json:"model_used"`
}

type suggestedResponseBody struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Tone     string `json:"tone"`
	Language string `json:"language"`
}

type processMetadata struct {
	WordCount      int    `json:"word_count"`
	Language       string `json:"language"`
	SourceFormat   string `json:"source_format"`
	HasAttachments bool   `json:"has_attachments"`
}

type processResponse struct {
	ID                string                 `json:"id"`
	Classification    classificationResponse `json:"classification"`
	SuggestedResponse suggestedResponseBody  `json:"suggested_response"`
	ProcessingTimeMs  int64                  `json:"processing_time_ms"`
	Metadata          processMetadata        `json:"metadata"`
}

type statsResponse struct {
	TotalProcessed          int64   `json:"total_processed"`
	ProductiveCount         int64   `json:"productive_count"`
	UnproductiveCount       int64   `json:"unproductive_count"`
	AverageConfidence       float64 `json:"average_confidence"`
	AverageProcessingTimeMs float64 `json:"average_processing_time_ms"`
	LastProcessedAt         string  `json:"last_processed_at,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewServer creates the HTTP gateway.
func NewServer(service *core.TriageService, logger *zap.Logger, listenAddress string, bodyLimit int) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "email-triage",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	s := &Server{
		app:           app,
		service:       service,
		logger:        logger,
		listenAddress: listenAddress,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/api/v1")
	v1.Post("/process", s.handleProcess)
	v1.Get("/stats", s.handleStats)
	v1.Get("/labels", s.handleLabels)
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	go func() {
		if err := s.app.Listen(s.listenAddress); err != nil {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("HTTP gateway listening", zap.String("address", s.listenAddress))
	return nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	return s.app.Shutdown()
}

// handleProcess accepts either a JSON body with raw text or a multipart
// upload with a file part.
func (s *Server) handleProcess(c *fiber.Ctx) error {
	input, err := s.buildInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	outcome, err := s.service.Process(c.Context(), input)
	if err != nil {
		return s.renderPipelineError(c, err)
	}

	return c.JSON(processResponse{
		ID: outcome.ID,
		Classification: classificationResponse{
			Label:      string(outcome.Classification.Label),
			Confidence: outcome.Classification.Confidence,
			Reasoning:  outcome.Classification.Reasoning,
			ModelUsed:  outcome.Classification.ModelUsed,
		},
		SuggestedResponse: suggestedResponseBody{
			Subject:  outcome.Response.Subject,
			Body:     outcome.Response.Body,
			Tone:     string(outcome.Response.Tone),
			Language: outcome.Response.Language,
		},
		ProcessingTimeMs: outcome.ProcessingTimeMs,
		Metadata: processMetadata{
			WordCount:      outcome.Features.WordCount,
			Language:       outcome.Features.Language,
			SourceFormat:   string(outcome.Document.SourceFormat),
			HasAttachments: outcome.Document.HasAttachments,
		},
	})
}

// buildInput maps the request body onto a pipeline input. A multipart "file"
// part wins over a JSON body; the file kind comes from the "kind" form field
// or the file extension.
func (s *Server) buildInput(c *fiber.Ctx) (core.Input, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return core.Input{}, errors.New("failed to open uploaded file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return core.Input{}, errors.New("failed to read uploaded file")
		}

		kind := c.FormValue("kind")
		if kind == "" {
			kind = kindFromFilename(fileHeader.Filename)
		}

		return core.Input{
			FileBytes:   data,
			FileKind:    kind,
			SubjectHint: c.FormValue("subject"),
		}, nil
	}

	var req processRequest
	if err := c.BodyParser(&req); err != nil {
		return core.Input{}, errors.New("invalid request body")
	}
	return core.Input{
		Text:        req.Text,
		SubjectHint: req.Subject,
	}, nil
}

// kindFromFilename infers the declared kind from an upload's extension.
// Unknown extensions pass through so the pipeline rejects them uniformly.
func kindFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return string(core.FormatPlainText)
	case ".pdf":
		return string(core.FormatPdf)
	case ".eml":
		return string(core.FormatEml)
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	}
}

func (s *Server) renderPipelineError(c *fiber.Ctx, err error) error {
	var pe *core.PipelineError
	if errors.As(err, &pe) {
		status := fiber.StatusInternalServerError
		switch pe.Kind {
		case core.KindUnsupportedFormat:
			status = fiber.StatusUnsupportedMediaType
		case core.KindDecode, core.KindUnsupportedLanguage:
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(errorResponse{
			Error: pe.Message,
			Kind:  string(pe.Kind),
		})
	}

	s.logger.Error("Unexpected pipeline failure", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Error: "internal error",
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats := s.service.Snapshot()

	resp := statsResponse{
		TotalProcessed:          stats.TotalProcessed,
		ProductiveCount:         stats.ProductiveCount,
		UnproductiveCount:       stats.UnproductiveCount,
		AverageConfidence:       stats.AverageConfidence,
		AverageProcessingTimeMs: stats.AverageProcessingTimeMs,
	}
	if !stats.LastProcessedAt.IsZero() {
		resp.LastProcessedAt = stats.LastProcessedAt.UTC().Format(time.RFC3339)
	}
	return c.JSON(resp)
}

func (s *Server) handleLabels(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"labels": core.SupportedLabels()})
}
