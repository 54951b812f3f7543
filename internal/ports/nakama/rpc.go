package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"echoes/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// OpenSessionResponse is the payload returned to a console opening a session.
type OpenSessionResponse struct {
	MatchID string `json:"match_id"`
	Ticket  string `json:"ticket"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, tickets *app.TicketService) error {
	return initializer.RegisterRpc(RpcOpenSession, newRpcOpenSession(tickets))
}

// newRpcOpenSession creates a fresh match for the calling user and returns
// the ticket the console must present in its join metadata.
func newRpcOpenSession(tickets *app.TicketService) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			return "", runtime.NewError("authentication required", 16)
		}

		matchID, err := nk.MatchCreate(ctx, MatchNameEchoes, map[string]interface{}{"owner": userID})
		if err != nil {
			logger.Error("RpcOpenSession [User:%s]: Failed to create match: %v", userID, err)
			return "", err
		}

		ticket, err := tickets.Issue(userID, matchID)
		if err != nil {
			logger.Error("RpcOpenSession [User:%s]: Failed to issue ticket: %v", userID, err)
			return "", runtime.NewError("could not issue ticket", 13)
		}

		logger.Info("RpcOpenSession [User:%s]: Created match %s", userID, matchID)
		b, err := json.Marshal(OpenSessionResponse{MatchID: matchID, Ticket: ticket})
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
