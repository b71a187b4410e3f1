package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assetkit/assetkit/pkg/assetkit/auth"
)

func TestTokenGate(t *testing.T) {
	gate := auth.NewTokenGate("the-shared-secret")

	tests := []struct {
		name       string
		token      string
		authorized bool
	}{
		{"exact match", "the-shared-secret", true},
		{"wrong token", "some-other-token", false},
		{"empty token", "", false},
		{"prefix of the secret", "the-shared", false},
		{"secret with trailing junk", "the-shared-secretx", false},
		{"case differs", "The-Shared-Secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.authorized, gate.Authorize(tt.token))
		})
	}
}

func TestTokenGate_EmptySecretMatchesOnlyEmpty(t *testing.T) {
	gate := auth.NewTokenGate("")
	assert.True(t, gate.Authorize(""))
	assert.False(t, gate.Authorize("anything"))
}
