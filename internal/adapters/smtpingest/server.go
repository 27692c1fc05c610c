// Package smtpingest accepts emails over SMTP and feeds them into the
// triage pipeline. Each delivered message is processed as a .eml document.
package smtpingest

import (
	"context"
	"io"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/ricardo/email-triage/internal/core"
)

// Server is the SMTP gateway for the triage pipeline.
type Server struct {
	service         *core.TriageService
	logger          *zap.Logger
	listenAddr      string
	maxMessageBytes int
	processTimeout  time.Duration
	server          *smtp.Server
}

// NewServer creates a new SMTP ingest server.
func NewServer(
	service *core.TriageService,
	logger *zap.Logger,
	listenAddr string,
	maxMessageBytes int,
	processTimeout time.Duration,
) *Server {
	return &Server{
		service:         service,
		logger:          logger,
		listenAddr:      listenAddr,
		maxMessageBytes: maxMessageBytes,
		processTimeout:  processTimeout,
	}
}

// Start starts the SMTP ingest server
func (s *Server) Start() error {
	s.server = smtp.NewServer(&smtpBackend{ingest: s})

	s.server.Addr = s.listenAddr
	s.server.Domain = "localhost"
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = int64(s.maxMessageBytes)
	s.server.MaxRecipients = 50
	s.server.AllowInsecureAuth = true

	s.logger.Info("SMTP ingest starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				s.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP ingest server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *Server
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		ingest:     b.ingest,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest     *Server
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for ingest)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data runs the delivered message through the triage pipeline. A pipeline
// failure rejects the message with a permanent error so the sender does not
// retry a body that cannot be parsed.
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.ingest.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.ingest.processTimeout)
	defer cancel()

	outcome, err := s.ingest.service.Process(ctx, core.Input{
		FileBytes: rawData,
		FileKind:  string(core.FormatEml),
	})
	if err != nil {
		s.ingest.logger.Error("Failed to triage email",
			zap.Error(err),
			zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "message could not be processed",
		}
	}

	s.ingest.logger.Info("Triaged inbound email",
		zap.String("id", outcome.ID),
		zap.String("sender", s.sender),
		zap.String("label", string(outcome.Classification.Label)),
		zap.Float64("confidence", outcome.Classification.Confidence),
		zap.String("model", outcome.Classification.ModelUsed))

	return nil
}

// Logout handles SMTP logout (nothing to release)
func (s *smtpSession) Logout() error {
	return nil
}
