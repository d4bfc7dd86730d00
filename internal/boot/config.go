package boot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env     string `env:"ENV,default=dev"`
	DataDir string `env:"DATA_DIR,required"`
	Server  struct {
		Port        string `env:"PORT,default=8080"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
		Origins     string `env:"ALLOWED_ORIGINS,default=*"`
	}
	Auth struct {
		JWTSecret   string        `env:"JWT_SECRET,required"`
		TokenTTL    time.Duration `env:"TOKEN_TTL,default=24h"`
		OTPTTL      time.Duration `env:"OTP_TTL,default=5m"`
		OTPAttempts int           `env:"OTP_MAX_ATTEMPTS,default=3"`
	}
	Realtime struct {
		MaxFrameSize   int64         `env:"WS_MAX_FRAME_SIZE,default=4096"`
		SendBufferSize int           `env:"WS_SEND_BUFFER,default=256"`
		RateBurst      int           `env:"WS_RATE_BURST,default=5"`
		RateInterval   time.Duration `env:"WS_RATE_INTERVAL,default=1s"`
	}
}

func Load(ctx context.Context) (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(ctx, config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) DataDirectory() string {
	return c.DataDir
}

func (c *Config) ServerOrigins() []string {
	parts := strings.Split(c.Server.Origins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) TokenSecret() string {
	return c.Auth.JWTSecret
}

func (c *Config) TokenLifetime() time.Duration {
	return c.Auth.TokenTTL
}

func (c *Config) OTPLifetime() time.Duration {
	return c.Auth.OTPTTL
}

func (c *Config) OTPAttemptLimit() int {
	return c.Auth.OTPAttempts
}
