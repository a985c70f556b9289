package config

// Config holds all application configuration.
// It is loaded once at startup and passed explicitly to the components that need it.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Mail      MailConfig      `mapstructure:"mail"`
	Storage   StorageConfig   `mapstructure:"storage"    validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// PublicBaseURL is the externally reachable address used to build links
	// sent to users, e.g. the email verification URL.
	PublicBaseURL          string `mapstructure:"public_base_url"          validate:"required,url"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	MaxUploadBytes         int64  `mapstructure:"max_upload_bytes"         validate:"gt=0"`
	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	// Empty disables CORS handling.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"dive,required"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	Algorithm                   string `mapstructure:"algorithm"                      validate:"required,oneof=HS256 HS384 HS512"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// MailConfig contains SMTP settings for outgoing mail.
// When Host is empty, verification links are logged instead of sent.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"      validate:"gte=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"      validate:"required_with=Host"`
	FromName string `mapstructure:"from_name"`
	UseSSL   bool   `mapstructure:"use_ssl"`
}

// StorageConfig contains settings for the S3-compatible avatar bucket.
type StorageConfig struct {
	Bucket          string `mapstructure:"bucket"            validate:"required"`
	Region          string `mapstructure:"region"            validate:"required"`
	Endpoint        string `mapstructure:"endpoint"          validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
	// PublicBaseURL is the prefix of the URLs handed back for uploaded objects.
	// When empty it is derived from Endpoint or the AWS bucket host.
	PublicBaseURL string `mapstructure:"public_base_url" validate:"omitempty,url"`
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"       validate:"required_if=Enabled true,gte=0"`
	WindowSeconds int  `mapstructure:"window_seconds" validate:"required_if=Enabled true,gte=0"`
}
