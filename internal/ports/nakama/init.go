package nakama

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"echoes/internal/app"
	"echoes/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if err := config.LoadHostConfig(HostConfigPath, env); err != nil {
		logger.Warn("InitModule: Could not load host config, using defaults: %v", err)
	}
	cfg := config.GetHostConfig()

	tickets, err := newTicketService(cfg.Tickets, logger)
	if err != nil {
		return err
	}

	if err := RegisterRPCs(initializer, tickets); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameEchoes, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(cfg, tickets), nil
	}); err != nil {
		return err
	}

	logger.Info("Echoes Go module loaded (tick rate %d, bots %t).", cfg.Host.TickRate, cfg.Bots.Enabled)
	return nil
}

// newTicketService builds the ticket signer. Without a configured secret a
// per-process one is generated, so tickets do not survive a restart.
func newTicketService(c config.TicketsSection, logger runtime.Logger) (*app.TicketService, error) {
	secret := c.Secret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate ticket secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		logger.Warn("InitModule: No ticket secret configured, using an ephemeral one.")
	}
	return app.NewTicketService(secret, c.Issuer, c.TTL()), nil
}
