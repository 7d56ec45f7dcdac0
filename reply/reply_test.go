package reply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEchoReply(t *testing.T) {
	e := NewEcho("", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "了解。「hello」。こちらはデモの応答です。"},
		{"trims surrounding space", "  hello \n", "了解。「hello」。こちらはデモの応答です。"},
		{"keeps inner space", "a b", "了解。「a b」。こちらはデモの応答です。"},
		{"empty", "", "……"},
		{"whitespace only", "   \t", "……"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Reply(tt.input))
		})
	}
}

func TestEchoCustomFormat(t *testing.T) {
	e := NewEcho("ACK <%s>", "...")
	assert.Equal(t, "ACK <ping>", e.Reply("ping"))
	assert.Equal(t, "...", e.Reply(" "))
}

func TestFuncAdapter(t *testing.T) {
	var src Source = Func(strings.ToUpper)
	assert.Equal(t, "HI", src.Reply("hi"))
}
