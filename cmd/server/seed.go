package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lifecover/internal/auth/models"
	"lifecover/internal/platform/config"
	"lifecover/pkg/platform/audit"
)

type adminWriter interface {
	Save(ctx context.Context, cred *models.Credential) error
}

type passwordHasher interface {
	HashPassword(plain string) (string, error)
}

// seedAdmin upserts the configured admin credential. Re-running it rotates
// the password and keeps the stored user ID.
func seedAdmin(ctx context.Context, cfg config.Server, users adminWriter, hasher passwordHasher, emitter audit.Emitter, log *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	hash, err := hasher.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	now := time.Now().UTC()
	cred := &models.Credential{
		UserID:       uuid.New(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Save(ctx, cred); err != nil {
		return fmt.Errorf("provision admin: %w", err)
	}

	log.InfoContext(ctx, "admin provisioned", "user_id", cred.UserID.String())
	if emitter != nil {
		if err := emitter.Emit(ctx, audit.Event{
			UserID:  cred.UserID.String(),
			Subject: cred.Email,
			Action:  string(audit.EventAdminProvisioned),
		}); err != nil {
			log.WarnContext(ctx, "failed to emit audit event",
				"action", string(audit.EventAdminProvisioned),
				"error", err,
			)
		}
	}
	return nil
}
