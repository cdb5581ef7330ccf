package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the portal backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Email       EmailConfig       `mapstructure:"email"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Uploads     UploadsConfig     `mapstructure:"uploads"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host               string   `mapstructure:"host"`
	Port               int      `mapstructure:"port"`
	LogLevel           string   `mapstructure:"log_level"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string            `mapstructure:"driver"`
	Path     string            `mapstructure:"path"`
	DSN      string            `mapstructure:"dsn"`
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Name     string            `mapstructure:"name"`
	User     string            `mapstructure:"user"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
}

// AuthConfig controls tokens and the OTP login flow.
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	Issuer          string        `mapstructure:"issuer"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	AdminTTL        time.Duration `mapstructure:"admin_ttl"`
	OTPTTL          time.Duration `mapstructure:"otp_ttl"`
	OTPDigits       int           `mapstructure:"otp_digits"`
	RecheckApproval bool          `mapstructure:"recheck_approval"`
}

// EmailConfig selects and configures the outbound mail provider.
type EmailConfig struct {
	Provider   string      `mapstructure:"provider"`
	Brand      string      `mapstructure:"brand"`
	From       string      `mapstructure:"from"`
	AdminEmail string      `mapstructure:"admin_email"`
	SMTP       SMTPConfig  `mapstructure:"smtp"`
	Brevo      BrevoConfig `mapstructure:"brevo"`
}

// SMTPConfig holds SMTP relay options.
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// BrevoConfig holds Brevo transactional API options.
type BrevoConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AdminConfig seeds the initial operator account.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// UploadsConfig controls where contract files are stored.
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// MaintenanceConfig schedules background cleanup jobs.
type MaintenanceConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	OTPCleanupSchedule string `mapstructure:"otp_cleanup_schedule"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("config: auth.jwt_secret is required")
	}

	switch c.Email.Provider {
	case "disabled", "smtp", "brevo":
	default:
		return fmt.Errorf("config: unknown email provider %q", c.Email.Provider)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.rate_limit_per_minute", 5)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/portal.sqlite")

	v.SetDefault("auth.issuer", "nriproperty-portal")
	v.SetDefault("auth.session_ttl", "168h") // 7 days
	v.SetDefault("auth.admin_ttl", "24h")
	v.SetDefault("auth.otp_ttl", "10m")
	v.SetDefault("auth.otp_digits", 6)
	v.SetDefault("auth.recheck_approval", false)

	v.SetDefault("email.provider", "disabled")
	v.SetDefault("email.brand", "NRI Property")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.use_tls", false)
	v.SetDefault("email.smtp.timeout", "10s")
	v.SetDefault("email.brevo.endpoint", "https://api.brevo.com/v3/smtp/email")
	v.SetDefault("email.brevo.timeout", "10s")

	v.SetDefault("uploads.dir", "./uploads")

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.otp_cleanup_schedule", "*/10 * * * *")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
