package username

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^anonymous_[a-z]+-[a-z0-9]{5}$`)
	for i := 0; i < 100; i++ {
		require.Regexp(t, pattern, Generate())
	}
}
