package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowserCommands(t *testing.T) {
	for _, goos := range []string{"windows", "darwin", "linux"} {
		cmds := browserCommands(goos, "http://localhost:20261")
		if assert.NotEmpty(t, cmds, goos) {
			for _, argv := range cmds {
				assert.Equal(t, "http://localhost:20261", argv[len(argv)-1])
			}
		}
	}
	assert.Equal(t, "open", browserCommands("darwin", "x")[0][0])
}
