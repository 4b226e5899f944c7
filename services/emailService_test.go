package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestEmailServiceAvailability(t *testing.T) {
	t.Run("unavailable without api key", func(t *testing.T) {
		s := NewEmailService("", "noreply@cellhub.local", zap.NewNop())
		assert.False(t, s.Available())

		err := s.SendPasswordResetEmail("ana@example.com", "123456", "Ana")
		assert.Error(t, err)
	})

	t.Run("available with api key", func(t *testing.T) {
		s := NewEmailService("re_test_key", "noreply@cellhub.local", zap.NewNop())
		assert.True(t, s.Available())
	})
}
