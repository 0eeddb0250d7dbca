package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"milkatm-backend/internal/entry"
)

const ContentTypeJSON = "application/json"

var ErrInvalidBackup = errors.New("invalid backup file")

// WriteJSON writes entries as an indented array in the shape FromRecord reads.
func WriteJSON(w io.Writer, entries []entry.Entry) error {
	if entries == nil {
		entries = []entry.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ReadJSON parses a backup into loosely-typed records. The top level may be
// the array itself or an object holding it under "entries". Numbers are
// kept as json.Number.
func ReadJSON(r io.Reader) ([]map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidBackup)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if raw[0] == '{' {
		var wrapped struct {
			Entries []map[string]any `json:"entries"`
		}
		if err := dec.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
		}
		if wrapped.Entries == nil {
			return nil, fmt.Errorf("%w: no entries array", ErrInvalidBackup)
		}
		return wrapped.Entries, nil
	}

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return records, nil
}
