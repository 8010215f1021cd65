package providers

import (
	"github.com/samber/do/v2"

	"github.com/coloredin/coloredin-server/internal/auth"
	"github.com/coloredin/coloredin-server/internal/config"
	"github.com/coloredin/coloredin-server/internal/logger"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey derives the key from the configured secret, or loads or
// generates one at the configured key path.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.ResolveKey(cfg.Auth.Secret, cfg.Auth.KeyPath)
	if err != nil {
		return nil, err
	}

	source := "key_file"
	if cfg.Auth.Secret != "" {
		source = "secret"
	}
	log.Info("Authentication key loaded",
		"source", source,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}
