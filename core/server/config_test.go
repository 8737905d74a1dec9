package server_test

import (
	"testing"
	"time"

	"bitbackup/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_CacheTTL(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"Configured", 45, 45 * time.Second},
		{"Disabled", 0, 0},
		{"Negative", -1, server.DefaultCacheTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{CacheTTLSeconds: tt.seconds}
			assert.Equal(t, tt.want, c.CacheTTL())
		})
	}
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Address())
}
