package boot

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)

	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")

	config, err := Load(context.Background())
	req.NoError(err)
	req.Equal("8080", config.Server.Port)
	req.Equal("8081", config.Server.MetricsPort)
	req.Equal(5*time.Minute, config.Auth.OTPTTL)
	req.Equal(3, config.Auth.OTPAttempts)
	req.Equal(24*time.Hour, config.Auth.TokenTTL)
	req.Equal([]string{"*"}, config.ServerOrigins())
	req.True(config.IsDevelopment())
	req.False(config.IsProduction())
}

func TestLoadRequiresDataDir(t *testing.T) {
	// t.Setenv registers the restore; the unset makes the variable truly
	// absent rather than empty.
	t.Setenv("DATA_DIR", "placeholder")
	os.Unsetenv("DATA_DIR")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestServerOriginsSplitsAndTrims(t *testing.T) {
	req := require.New(t)

	config := &Config{}
	config.Server.Origins = " http://a.example , http://b.example ,"
	req.Equal([]string{"http://a.example", "http://b.example"}, config.ServerOrigins())
}
