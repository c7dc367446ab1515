package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	PublicURL      string   `mapstructure:"public_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver              string `mapstructure:"driver"`
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	Database            string `mapstructure:"database"`
	Path                string `mapstructure:"path"`
	MaxIdleConns        int    `mapstructure:"max_idle_conns"`
	MaxOpenConns        int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime     int    `mapstructure:"conn_max_lifetime"`
	QueryTimeoutSeconds int    `mapstructure:"query_timeout_seconds"`
}

// GetDSN returns the MySQL DSN. Timestamps are stored as epoch milliseconds so
// the connection timezone does not matter. clientFoundRows makes conditional
// updates report matched rows rather than changed rows.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) QueryTimeout() time.Duration {
	if d.QueryTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.QueryTimeoutSeconds) * time.Second
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type LoginRateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxAttempts   int  `mapstructure:"max_attempts"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

type AuthConfig struct {
	JWT        JWTConfig            `mapstructure:"jwt"`
	BcryptCost int                  `mapstructure:"bcrypt_cost"`
	LoginLimit LoginRateLimitConfig `mapstructure:"login_limit"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type StorageConfig struct {
	Root         string `mapstructure:"root"`
	PublicPath   string `mapstructure:"public_path"`
	MaxFileBytes int64  `mapstructure:"max_file_bytes"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type NotificationConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// ReportConfig controls the in-process weekly report schedule. When disabled
// the report is sent by an external scheduler running the CLI.
type ReportConfig struct {
	ScheduleEnabled bool   `mapstructure:"schedule_enabled"`
	Weekday         string `mapstructure:"weekday"`
	Hour            int    `mapstructure:"hour"`
}

func (r *ReportConfig) ParseWeekday() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(r.Weekday, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", r.Weekday)
}
