package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// MinSendBuffer fits a joiner's greeting (welcome, history, user_list)
// without backpressure.
const MinSendBuffer = 3

type NamesConfig struct {
	Backend     string `mapstructure:"backend"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	LogLevel   string `mapstructure:"log_level"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`

	Secret        string        `mapstructure:"secret"`
	SessionSecret string        `mapstructure:"session_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`

	GracePeriod      time.Duration `mapstructure:"grace_period"`
	HistoryCapacity  int           `mapstructure:"history_capacity"`
	ChatRateLimit    int           `mapstructure:"chat_rate_limit"`
	ChatRateInterval time.Duration `mapstructure:"chat_rate_interval"`

	Names      NamesConfig `mapstructure:"names"`
	ICEServers []ICEServer `mapstructure:"ice_servers"`
}

// PongWait is how long a connection may stay silent before it is dropped.
func (c *Config) PongWait() time.Duration { return c.PingPeriod * 10 / 9 }

// SessionKey is the cookie-session signing key. Without an explicit
// session_secret it is derived from secret, so cookies and tokens never share a key.
func (c *Config) SessionKey() []byte {
	if c.SessionSecret != "" {
		return []byte(c.SessionSecret)
	}
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte("lobby-session-cookie"))
	return mac.Sum(nil)
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.PingPeriod <= 0 || c.WriteWait <= 0 {
		return errors.New("ping_period and write_wait must be positive")
	}
	if c.SendBuffer < MinSendBuffer {
		return fmt.Errorf("send_buffer must be at least %d", MinSendBuffer)
	}
	if c.HistoryCapacity <= 0 {
		return errors.New("history_capacity must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("token_ttl", "12h")
	v.SetDefault("grace_period", "300s")
	v.SetDefault("history_capacity", 50)
	v.SetDefault("chat_rate_limit", 20)
	v.SetDefault("chat_rate_interval", "10s")
	v.SetDefault("names.backend", "memory")
	v.SetDefault("names.redis_addr", "localhost:6379")
	v.SetDefault("names.redis_prefix", "lobby:name:")
	v.SetDefault("names.sqlite_path", "./data/names.db")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName on top of the defaults; a missing file is not an error.
// Every key can be overridden from the environment, e.g. LOBBY_SECRET or LOBBY_NAMES_BACKEND.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("LOBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	// AutomaticEnv only sees keys viper already knows about.
	_ = v.BindEnv("secret")
	_ = v.BindEnv("session_secret")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Str("names", cfg.Names.Backend).Msg("config ready")
	return &cfg, nil
}
