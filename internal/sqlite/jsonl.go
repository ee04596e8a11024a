package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// maxJSONLLine bounds a single JSONL record.
const maxJSONLLine = 16 << 20

// readJSONL reads path and returns each non-empty line as a raw JSON
// record. Lines that are not valid JSON are counted in skipped and left out.
func readJSONL(path string) (records []json.RawMessage, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			skipped++
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, skipped, nil
}
