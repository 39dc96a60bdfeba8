package bootstrap

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/campaign"
	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/database/migrations"
)

func init() {
	migrations.Register("campaigns_owner_created_idx", func(db *gorm.DB) error {
		return db.Exec(`CREATE INDEX IF NOT EXISTS idx_campaigns_owner_created ON campaigns (created_by, created_at DESC)`).Error
	})
	migrations.Register("campaigns_name_lower_idx", func(db *gorm.DB) error {
		return db.Exec(`CREATE INDEX IF NOT EXISTS idx_campaigns_name_lower ON campaigns (LOWER(name))`).Error
	})
	migrations.Register("campaigns_pending_idx", func(db *gorm.DB) error {
		return db.Exec(`CREATE INDEX IF NOT EXISTS idx_campaigns_pending ON campaigns (created_at) WHERE status = 'pending'`).Error
	})
}

// Models lists every table managed by AutoMigrate, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&campaign.Campaign{},
	}
}

// ApplyDatabaseMigrations runs database migrations when enabled via configuration.
func ApplyDatabaseMigrations(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("database migrations skipped", slog.String("env_var", "CNT_DB_RUN_MIGRATIONS=false"))
		return nil
	}
	return Migrate(db, logger)
}

// Migrate creates or updates the schema unconditionally.
func Migrate(db *gorm.DB, logger *slog.Logger) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := migrations.Run(db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database migrations applied successfully")
	return nil
}
