package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

// EnsureDefaultAdmin creates or synchronizes the configured admin account.
// Nothing happens when no admin password is configured.
func EnsureDefaultAdmin(db *gorm.DB, admin config.AdminConfig, logger *slog.Logger) error {
	if admin.Password == "" {
		logger.Info("default admin skipped", slog.String("env_var", "CNT_ADMIN_PASSWORD"))
		return nil
	}

	existing, err := user.GetByEmail(db, admin.Email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		_, createErr := user.CreateWithPassword(db, user.PasswordInput{
			FullName: admin.FullName,
			Email:    admin.Email,
			Password: admin.Password,
			Role:     types.UserRoleAdmin,
		})
		if createErr != nil {
			if isUndefinedTableError(createErr) {
				logger.Warn("default admin skipped - users table missing", slog.String("email", admin.Email))
				return nil
			}
			return fmt.Errorf("create admin: %w", createErr)
		}

		logger.Info("default admin created", slog.String("email", admin.Email))
		return nil

	case err != nil:
		if isUndefinedTableError(err) {
			logger.Warn("default admin skipped - users table missing", slog.String("email", admin.Email))
			return nil
		}
		return fmt.Errorf("get admin: %w", err)
	}

	updates := adminUpdates(existing, admin)
	if pw, ok := updates["password"]; ok && pw == "" {
		hashed, hashErr := user.HashPassword(admin.Password)
		if hashErr != nil {
			return fmt.Errorf("hash admin password: %w", hashErr)
		}
		updates["password"] = hashed
	}

	if len(updates) == 0 {
		logger.Info("default admin already up to date", slog.String("email", admin.Email))
		return nil
	}

	if err := db.Model(&user.User{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update admin: %w", err)
	}

	logger.Info("default admin synchronized", slog.String("email", admin.Email))
	return nil
}

// adminUpdates lists the columns that drifted from the configuration. A
// password entry is left empty for the caller to hash.
func adminUpdates(existing user.User, admin config.AdminConfig) map[string]interface{} {
	updates := map[string]interface{}{}

	if needsPasswordReset(existing.Password, admin.Password) {
		updates["password"] = ""
	}
	if existing.Role != types.UserRoleAdmin {
		updates["role"] = types.UserRoleAdmin
	}
	if !existing.Active {
		updates["is_active"] = true
	}
	if admin.FullName != "" && existing.FullName != admin.FullName {
		updates["full_name"] = admin.FullName
	}

	return updates
}

func needsPasswordReset(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) != nil
}

func isUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}

	message := err.Error()
	return strings.Contains(message, "relation \"users\" does not exist") ||
		strings.Contains(message, "no such table: users")
}
