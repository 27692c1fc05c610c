package factory

import (
	"github.com/ricardo/email-triage/internal/adapters/httpapi"
	"github.com/ricardo/email-triage/internal/adapters/smtpingest"
	"github.com/ricardo/email-triage/internal/config"
	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/ports"
	"go.uber.org/zap"
)

// GatewayFactory creates the inbound gateways
type GatewayFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger) *GatewayFactory {
	return &GatewayFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGateways creates every configured gateway. The HTTP gateway is
// always on; the SMTP gateway only when enabled.
func (f *GatewayFactory) CreateGateways(service *core.TriageService) []ports.Gateway {
	serverCfg := f.cfg.GetServer()

	gateways := []ports.Gateway{
		httpapi.NewServer(service, f.logger, serverCfg.HTTPListenAddress, serverCfg.HTTPBodyLimit),
	}

	if serverCfg.SMTPEnabled {
		gateways = append(gateways, smtpingest.NewServer(
			service,
			f.logger,
			serverCfg.SMTPListenAddress,
			serverCfg.SMTPMaxMessageBytes,
			serverCfg.SMTPProcessTimeout,
		))
	}

	return gateways
}
