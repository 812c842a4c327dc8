package order

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a JSON scalar carried as text. Strings decode as-is, numbers and
// booleans keep their literal (9.99 stays "9.99"), null becomes empty.
// Objects and arrays are not scalars and decode to empty so a malformed
// field blanks out instead of failing the whole record.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("order: decode text: %w", err)
		}
		*t = Text(s)
	case '{', '[':
		*t = ""
	default:
		*t = Text(trimmed)
	}
	return nil
}
