package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxmind/internal/models"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/taxmind_test")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OWNER_IDS", "111, 222,junk,")
	t.Setenv("TIMEZONE", "Asia/Ho_Chi_Minh")
	t.Setenv("DAILY_REMINDER_TIME", "09:15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/taxmind_test", cfg.DatabaseURL)
	assert.True(t, cfg.IsOwner(111))
	assert.True(t, cfg.IsOwner(222))
	assert.False(t, cfg.IsOwner(333))
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Timezone.String())
	assert.Equal(t, 9, cfg.DailyHour)
	assert.Equal(t, 15, cfg.DailyMinute)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BOT_TOKEN", "123:abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadClock(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/taxmind_test")
	t.Setenv("BOT_TOKEN", "123:abc")

	for _, bad := range []string{"25:00", "08:61", "0830", "eight:30"} {
		t.Setenv("DAILY_REMINDER_TIME", bad)
		_, err := Load()
		assert.Error(t, err, bad)
	}
}

func TestThresholdFallback(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Threshold(models.Monthly))
	assert.Equal(t, 3, cfg.Threshold(models.Quarterly))
	assert.Equal(t, 10, cfg.Threshold(models.Yearly))
	assert.Equal(t, 10, cfg.Threshold(models.Frequency("weekly")))
}
