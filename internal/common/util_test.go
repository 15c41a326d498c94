package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", Truncate("hello", 50))
	require.Equal(t, "hel", Truncate("hello", 3))
	require.Equal(t, "xin chà", Truncate("xin chào các bạn", 7))
	require.Equal(t, "abc", Truncate("abc", 0))
}
