package opener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{goos: "darwin", want: []string{"open", "/tmp/a.jpg"}},
		{goos: "linux", want: []string{"xdg-open", "/tmp/a.jpg"}},
		{goos: "windows", want: []string{"rundll32", "url.dll,FileProtocolHandler", "/tmp/a.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := Command(tt.goos, "/tmp/a.jpg")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Args)
		})
	}
}

func TestCommand_Unsupported(t *testing.T) {
	_, err := Command("plan9", "/tmp/a.jpg")

	assert.ErrorContains(t, err, "unsupported platform")
}
