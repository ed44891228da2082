package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "helios", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "play")
	assert.Contains(t, names, "saves")

	require.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, root.PersistentFlags().Lookup("save-path"))
}
