package erp

import (
	"time"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
)

// Factory builds clients for stored connections. It owns the session cache,
// so cached logins live and die with the factory rather than in package
// state.
type Factory struct {
	cache      *SessionCache
	cfg        ClientConfig
	apiVersion string
	logger     *logger.Logger
}

// NewFactory creates a client factory from application configuration
func NewFactory(cfg *config.Config, log *logger.Logger) *Factory {
	clientCfg := DefaultClientConfig()
	if cfg.ERP.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.ERP.MaxRetries
	}
	if cfg.ERP.RequestTimeout > 0 {
		clientCfg.Timeout = time.Duration(cfg.ERP.RequestTimeout) * time.Second
	}
	if cfg.ERP.RetryBaseDelayMs > 0 {
		clientCfg.RetryBaseDelay = time.Duration(cfg.ERP.RetryBaseDelayMs) * time.Millisecond
	}

	return &Factory{
		cache:      NewSessionCache(),
		cfg:        clientCfg,
		apiVersion: cfg.ERP.APIVersion,
		logger:     log,
	}
}

// ClientFor returns a client bound to the connection's instance using the
// shared session cache
func (f *Factory) ClientFor(conn *models.Connection, creds models.Credentials) *Client {
	apiVersion := conn.APIVersion
	if apiVersion == "" {
		apiVersion = f.apiVersion
	}
	auth := NewAuthManager(f.cache, conn.InstanceURL, apiVersion, f.logger)
	return NewClient(auth, creds, f.cfg, f.logger)
}
