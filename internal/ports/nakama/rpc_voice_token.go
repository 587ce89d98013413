package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"coalition/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// VoiceTokenRequest asks for a signed Vivox token. Action is "login" or
// "join"; MatchID selects the deliberation channel for joins.
type VoiceTokenRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"match_id"`
}

type VoiceTokenResponse struct {
	Token string `json:"token"`
}

func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
	}

	var req VoiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	issuer := env["vivox_issuer"]
	secret := env["vivox_secret"]
	domain := env["vivox_domain"]
	if issuer == "" || secret == "" || domain == "" {
		issuer = "test-issuer"
		secret = "test-secret"
		domain = "test.vivox.com"
		logger.Warn("rpcVoiceToken: Vivox credentials missing from env, using test defaults.")
	}

	svc := app.NewVoiceService(secret, issuer, domain)
	token, err := svc.GenerateToken(userID, req.Action, req.MatchID)
	if err != nil {
		logger.Error("rpcVoiceToken [User:%s]: Failed to sign token: %v", userID, err)
		return "", runtime.NewError("failed to sign voice token", 13) // INTERNAL
	}

	b, _ := json.Marshal(VoiceTokenResponse{Token: token})
	return string(b), nil
}
