// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
	"path"

	"casemv/internal/rename"
)

// PrintResults writes one line per result followed by a summary line.
func PrintResults(w io.Writer, results []rename.Result) {
	for _, r := range results {
		from, to := path.Base(r.Intent.OldPath), path.Base(r.Intent.NewPath)
		switch r.Status {
		case rename.StatusRenamed:
			fmt.Fprintf(w, "renamed  %s -> %s\n", from, to)
		case rename.StatusSkipped:
			fmt.Fprintf(w, "skipped  %s -> %s (%s)\n", from, to, r.Reason)
		case rename.StatusFailed:
			fmt.Fprintf(w, "failed   %s -> %s\n", from, to)
		}
	}
	if len(results) > 1 {
		s := rename.Summarize(results)
		fmt.Fprintf(w, "%d renamed, %d skipped, %d failed\n", s.Renamed, s.Skipped, s.Failed)
	}
}
