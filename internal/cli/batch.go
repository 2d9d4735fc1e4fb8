// pattern: Functional Core
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"casemv/internal/pathseg"
	"casemv/internal/rename"
)

// renameEvent is the host's will-rename payload.
type renameEvent struct {
	Files []rename.Intent `json:"files"`
}

// ParseBatch decodes a rename event and normalizes host paths. A bare JSON
// array of intents is accepted as well.
func ParseBatch(r io.Reader) ([]rename.Intent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading rename event: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty rename event")
	}

	var intents []rename.Intent
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &intents); err != nil {
			return nil, fmt.Errorf("parsing rename event: %w", err)
		}
	} else {
		var ev renameEvent
		if err := json.Unmarshal([]byte(trimmed), &ev); err != nil {
			return nil, fmt.Errorf("parsing rename event: %w", err)
		}
		intents = ev.Files
	}

	for i, in := range intents {
		if in.OldPath == "" || in.NewPath == "" {
			return nil, fmt.Errorf("file %d: oldPath and newPath are required", i)
		}
		intents[i] = NormalizeIntent(in)
	}
	return intents, nil
}

// NormalizeIntent converts both paths to the slash form used by git.
func NormalizeIntent(in rename.Intent) rename.Intent {
	return rename.Intent{
		OldPath: pathseg.NormalizeHostPath(in.OldPath),
		NewPath: pathseg.NormalizeHostPath(in.NewPath),
	}
}
