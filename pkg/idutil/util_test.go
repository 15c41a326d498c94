package idutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewNode(t *testing.T) {
	node, err := NewNode()
	require.NoError(t, err)

	first := node.Generate().Int64()
	second := node.Generate().Int64()
	require.Less(t, first, second)

	require.InDelta(t, time.Now().UnixMilli(), Time(second), float64(time.Minute.Milliseconds()))
}
