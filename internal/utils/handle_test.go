package utils_test

import (
	"regexp"
	"testing"

	"github.com/brixal/wallet-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHandle_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^BRX\d{8}$`)
	for i := 0; i < 100; i++ {
		handle, err := utils.GenerateHandle()
		require.NoError(t, err)
		assert.Regexp(t, pattern, handle)
	}
}

func TestGenerateHandle_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		handle, err := utils.GenerateHandle()
		require.NoError(t, err)
		seen[handle] = struct{}{}
	}
	// Collisions in 50 draws over 10^8 values would point at a broken source.
	assert.Greater(t, len(seen), 45)
}
