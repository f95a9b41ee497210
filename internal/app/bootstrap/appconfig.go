// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, body limits); AppConfig is everything specific to
// TeamHub. Values come from environment variables, config files, or
// command-line flags, loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// JWT configuration. Access and refresh tokens are signed with
	// separate secrets so one cannot stand in for the other.
	JWTSecret          string
	JWTRefreshSecret   string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Firebase Admin SDK service-account file. Blank disables the
	// OAuth sign-in endpoint.
	FirebaseCredentialsFile string

	// UploadDir is the root directory for stored attachments.
	UploadDir string

	// DebugAuth includes the known-email list in allowlist 403
	// responses. Never enable outside local development.
	DebugAuth bool

	// Audit logging settings: "all", "db", "log", or "off".
	AuditLogAuth  string
	AuditLogAdmin string
}
