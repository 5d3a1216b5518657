package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadAll decodes every line of an append-only audit log into Records,
// in file order. A blank trailing line (the usual result of Append's
// trailing newline) is skipped rather than treated as a parse error.
func ReadAll(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []Record
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse audit record: %w", err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return out, nil
}

// ReadFile opens path and decodes it with ReadAll. A missing file is
// treated as an empty log rather than an error, since a sidecar that
// has never logged a decision has nothing to report.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}
