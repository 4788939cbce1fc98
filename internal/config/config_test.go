package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenMap(t *testing.T) {
	cfg := &Config{APITokens: "tok-1:u1, tok-2:u2,,bad,:empty,noid:"}

	tokens := cfg.TokenMap()
	assert.Equal(t, map[string]string{"tok-1": "u1", "tok-2": "u2"}, tokens)
}

func TestTokenMapEmpty(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.TokenMap())
}
