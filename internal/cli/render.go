package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/phrazzld/tasks-api/internal/board"
)

// Render writes the board as a table. Tasks whose last toggle did not settle
// are marked with their sync state.
func Render(w io.Writer, v board.View) {
	if v.Err != "" {
		fmt.Fprintln(w, v.Err)
	}
	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE\t")
	for _, item := range v.Items {
		mark := "[ ]"
		if item.Task.Completed {
			mark = "[x]"
		}
		note := ""
		if item.State != board.Confirmed {
			note = "(" + item.State.String() + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.Task.ID, mark, item.Task.Title, note)
	}
	_ = tw.Flush()
}
