// Package migrations holds hand-written schema changes that AutoMigrate
// cannot express, such as expression indexes.
package migrations

import (
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
)

// Func applies one migration. It must be idempotent.
type Func func(*gorm.DB) error

type namedMigration struct {
	name string
	fn   Func
}

// Registry keeps migrations in registration order.
type Registry struct {
	mu         sync.RWMutex
	migrations []namedMigration
}

var defaultRegistry = &Registry{}

// Register adds a migration to the default registry.
func Register(name string, fn Func) {
	defaultRegistry.Register(name, fn)
}

// Run executes the default registry.
func Run(db *gorm.DB, log *slog.Logger) error {
	return defaultRegistry.Run(db, log)
}

// Names lists the migrations of the default registry.
func Names() []string {
	return defaultRegistry.Names()
}

// Register adds a migration; registering the same name twice replaces it.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.migrations {
		if m.name == name {
			r.migrations[i].fn = fn
			return
		}
	}
	r.migrations = append(r.migrations, namedMigration{name: name, fn: fn})
}

// Names lists registered migrations in execution order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.migrations))
	for i, m := range r.migrations {
		names[i] = m.name
	}
	return names
}

// Run executes registered migrations sequentially, stopping at the first failure.
func (r *Registry) Run(db *gorm.DB, log *slog.Logger) error {
	r.mu.RLock()
	pending := make([]namedMigration, len(r.migrations))
	copy(pending, r.migrations)
	r.mu.RUnlock()

	if len(pending) == 0 {
		if log != nil {
			log.Info("no database migrations registered")
		}
		return nil
	}

	for _, migration := range pending {
		if err := migration.fn(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.name, err)
		}
		if log != nil {
			log.Info("migration applied", slog.String("name", migration.name))
		}
	}

	return nil
}
