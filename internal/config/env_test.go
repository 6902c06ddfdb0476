package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("RESUMEAI_TEST_VALUE", "  ")
	assert.Equal(t, "fallback", envOr("RESUMEAI_TEST_VALUE", "fallback"))

	t.Setenv("RESUMEAI_TEST_VALUE", "set")
	assert.Equal(t, "set", envOr("RESUMEAI_TEST_VALUE", "fallback"))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("RESUMEAI_TEST_INT", "12")
	assert.Equal(t, 12, envInt("RESUMEAI_TEST_INT", 3))

	t.Setenv("RESUMEAI_TEST_INT", "abc")
	assert.Equal(t, 3, envInt("RESUMEAI_TEST_INT", 3))

	t.Setenv("RESUMEAI_TEST_INT", "-4")
	assert.Equal(t, 3, envInt("RESUMEAI_TEST_INT", 3))
}

func TestEnvSeconds(t *testing.T) {
	t.Setenv("RESUMEAI_TEST_SECONDS", "")
	assert.Equal(t, 90*time.Second, envSeconds("RESUMEAI_TEST_SECONDS", 90*time.Second))

	t.Setenv("RESUMEAI_TEST_SECONDS", "0")
	assert.Equal(t, time.Duration(0), envSeconds("RESUMEAI_TEST_SECONDS", 90*time.Second))

	t.Setenv("RESUMEAI_TEST_SECONDS", "15")
	assert.Equal(t, 15*time.Second, envSeconds("RESUMEAI_TEST_SECONDS", 90*time.Second))
}

func TestDBConfigDSN(t *testing.T) {
	cfg := &DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "resumeai", SSLMode: "disable", TimeZone: "UTC"}
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "host=db user=u password=p dbname=resumeai port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())

	assert.False(t, (&DBConfig{}).Enabled())
}
