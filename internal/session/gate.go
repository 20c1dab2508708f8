// internal/session/gate.go
package session

import (
	"context"
	"crypto/subtle"

	"studio-site/internal/common/logger"
)

const (
	// FlagKey holds "true" while the admin is signed in.
	FlagKey   = "admin_authenticated"
	FlagValue = "true"
)

// Gate is the process-wide admin sign-in state. It is a cosmetic gate over a
// single shared secret: one flag, no expiry, not tied to any client.
type Gate struct {
	secret string
	flags  FlagStore
	logger logger.Logger
}

func NewGate(secret string, flags FlagStore, log logger.Logger) *Gate {
	return &Gate{
		secret: secret,
		flags:  flags,
		logger: log.WithFields(map[string]interface{}{"component": "session"}),
	}
}

// Authenticate sets the flag when password matches the configured secret.
func (g *Gate) Authenticate(ctx context.Context, password string) bool {
	if g.secret == "" || subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) != 1 {
		g.logger.Warn("admin login rejected", nil)
		return false
	}

	if err := g.flags.Set(ctx, FlagKey, FlagValue); err != nil {
		g.logger.Error("failed to persist admin flag", map[string]interface{}{"error": err})
		return false
	}

	g.logger.Info("admin logged in", nil)
	return true
}

// Logout clears the flag.
func (g *Gate) Logout(ctx context.Context) {
	if err := g.flags.Delete(ctx, FlagKey); err != nil {
		g.logger.Error("failed to clear admin flag", map[string]interface{}{"error": err})
		return
	}
	g.logger.Info("admin logged out", nil)
}

// IsAuthenticated reads the flag. Store errors read as signed out.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	value, ok, err := g.flags.Get(ctx, FlagKey)
	if err != nil {
		g.logger.Error("failed to read admin flag", map[string]interface{}{"error": err})
		return false
	}
	return ok && value == FlagValue
}
