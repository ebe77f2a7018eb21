package config

import (
	"time"

	"github.com/kitchen-service/kitchen/kitchen"
	"github.com/kitchen-service/kitchen/kitchen/database"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config      *kitchen.Config
	Debug       bool
	Environment string
}

func NewWebAppConfig(cfg *kitchen.Config) *WebAppConfig {
	return &WebAppConfig{
		Config:      cfg,
		Debug:       cfg.Web.Environment != "production",
		Environment: cfg.Web.Environment,
	}
}

func (w *WebAppConfig) GetDatabaseConfig() database.DBConfig {
	return w.Config.DB
}

func (w *WebAppConfig) GetWebConfig() kitchen.WebConfig {
	return w.Config.Web
}

func (w *WebAppConfig) GetLogConfig() kitchen.LogConfig {
	return w.Config.Log
}

// SessionTTL is how long a login stays valid.
func (w *WebAppConfig) SessionTTL() time.Duration {
	return time.Duration(w.Config.Web.SessionHours) * time.Hour
}

func (w *WebAppConfig) PageSize() int {
	return w.Config.Web.PageSize
}

// SecureCookies is true outside development.
func (w *WebAppConfig) SecureCookies() bool {
	return w.Environment == "production"
}
