// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TeamHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: TEAMHUB_MONGO_URI, TEAMHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "team_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// JWT settings
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Access token signing secret (must be strong in production)"},
	{Name: "jwt_refresh_secret", Default: "dev-only-change-me-too-0123456789ABCDEF", Desc: "Refresh token signing secret (must differ from jwt_secret)"},
	{Name: "access_token_expiry", Default: "168h", Desc: "Access token lifetime (e.g., 168h for 7 days)"},
	{Name: "refresh_token_expiry", Default: "720h", Desc: "Refresh token lifetime (e.g., 720h for 30 days)"},

	// Firebase OAuth
	{Name: "firebase_credentials_file", Default: "", Desc: "Path to Firebase service-account JSON (blank disables OAuth sign-in)"},

	// File storage
	{Name: "upload_dir", Default: "./uploads", Desc: "Root directory for uploaded attachments"},

	// Diagnostics
	{Name: "debug_auth", Default: false, Desc: "Include directory emails in allowlist 403 responses (dev only)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TEAMHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:          appValues.String("jwt_secret"),
		JWTRefreshSecret:   appValues.String("jwt_refresh_secret"),
		AccessTokenExpiry:  appValues.Duration("access_token_expiry", 7*24*time.Hour),
		RefreshTokenExpiry: appValues.Duration("refresh_token_expiry", 30*24*time.Hour),

		FirebaseCredentialsFile: appValues.String("firebase_credentials_file"),

		UploadDir: appValues.String("upload_dir"),

		DebugAuth: appValues.Bool("debug_auth"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// TeamHub validates the MongoDB URI format to catch configuration
// errors before attempting to connect, and refuses a production start
// with shared or default JWT secrets.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == appCfg.JWTRefreshSecret {
		return fmt.Errorf("jwt_secret and jwt_refresh_secret must differ")
	}

	if coreCfg.Env == "prod" {
		for name, v := range map[string]string{
			"jwt_secret":         appCfg.JWTSecret,
			"jwt_refresh_secret": appCfg.JWTRefreshSecret,
		} {
			if v == "" || len(v) < 32 || v == "dev-only-change-me-please-0123456789ABCDEF" || v == "dev-only-change-me-too-0123456789ABCDEF" {
				return fmt.Errorf("%s must be set to a strong value in production", name)
			}
		}
		if appCfg.DebugAuth {
			return fmt.Errorf("debug_auth must not be enabled in production")
		}
	}

	return nil
}
