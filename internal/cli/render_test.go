package cli

import (
	"bytes"
	"testing"

	"github.com/phrazzld/tasks-api/internal/board"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Render(&buf, board.View{
		Items: []board.Item{
			{Task: domain.Task{ID: 2, Title: "walk dog", Completed: true}, State: board.Confirmed},
			{Task: domain.Task{ID: 1, Title: "buy milk"}, State: board.Pending},
		},
	})

	out := buf.String()
	assert.Regexp(t, `\[x\]\s+walk dog`, out)
	assert.Contains(t, out, "(pending)")
	assert.NotContains(t, out, "(confirmed)")

	buf.Reset()
	Render(&buf, board.View{Err: "Could not connect to backend."})
	assert.Equal(t, "Could not connect to backend.\nNo tasks.\n", buf.String())
}
