package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mongo", cfg.StorageDriver)
	assert.Equal(t, 30*time.Minute, cfg.PendingBookingTTL)
	assert.Equal(t, 24*time.Hour, cfg.DownloadLinkTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.PurchaseTTL)
	assert.Equal(t, 5, cfg.MaxDownloads)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MAX_DOWNLOADS", "3")
	t.Setenv("BOOKING_TIMEZONE", "Asia/Kolkata")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,172.16.0.0/12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, 3, cfg.MaxDownloads)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestValidate(t *testing.T) {
	base := Config{StorageDriver: "mongo", MaxDownloads: 5, BookingTimezone: "UTC"}

	cfg := base
	assert.NoError(t, cfg.Validate())

	cfg = base
	cfg.StorageDriver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Env = "production"
	assert.Error(t, cfg.Validate(), "production requires secrets")

	cfg.JWTSecret = "jwt"
	cfg.PaymentKeySecret = "key"
	assert.NoError(t, cfg.Validate())

	cfg = base
	cfg.BookingTimezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}
