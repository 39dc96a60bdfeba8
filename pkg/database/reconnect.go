package database

import (
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

// connectionErrors are driver messages that indicate a dropped connection.
var connectionErrors = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"connection timed out",
	"eof",
	"bad connection",
	"invalid connection",
	"closed network connection",
	"connection lost",
	"server closed",
}

// ReconnectPlugin pings the pool before each statement and waits for the
// database to come back when the connection was lost.
type ReconnectPlugin struct {
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
	reconnects atomic.Int64
}

// NewReconnectPlugin creates a new reconnect plugin.
func NewReconnectPlugin(logger *slog.Logger) *ReconnectPlugin {
	return &ReconnectPlugin{
		logger:     logger,
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
}

// Name returns the plugin name.
func (p *ReconnectPlugin) Name() string {
	return "reconnect_plugin"
}

// Initialize hooks the plugin in front of every statement type.
func (p *ReconnectPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
	}{
		{"query", cb.Query().Before("gorm:query").Register},
		{"create", cb.Create().Before("gorm:create").Register},
		{"update", cb.Update().Before("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register},
	}

	for _, hook := range hooks {
		if err := hook.register("reconnect:before_"+hook.name, p.beforeStatement); err != nil {
			return err
		}
	}
	return nil
}

func (p *ReconnectPlugin) beforeStatement(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	err = sqlDB.Ping()
	if err == nil || !p.shouldReconnect(err) {
		return
	}

	p.logger.Warn("database connection lost, attempting to reconnect", slog.String("error", err.Error()))
	if !p.waitForConnection(sqlDB) {
		p.logger.Error("database reconnection failed after retries", slog.Int("max_retries", p.maxRetries))
	}
}

func (p *ReconnectPlugin) shouldReconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func (p *ReconnectPlugin) waitForConnection(sqlDB *sql.DB) bool {
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		time.Sleep(p.retryDelay * time.Duration(attempt))

		if err := sqlDB.Ping(); err == nil {
			total := p.reconnects.Add(1)
			p.logger.Info("database reconnection successful",
				slog.Int("attempt", attempt),
				slog.Int64("total_reconnects", total),
			)
			return true
		}
	}
	return false
}

// Reconnects returns the number of successful reconnections.
func (p *ReconnectPlugin) Reconnects() int64 {
	return p.reconnects.Load()
}
