package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// UncategorizedValue is the sentinel that selects "no category".
const UncategorizedValue = "uncategorized"

// CategorySelector is the optional category field of tool payloads.
// It accepts JSON null, a number, or a string. Null, "" and "uncategorized" select no category.
// Any other string that is not a positive integer is kept as Invalid, which callers
// report as a category that does not exist.
type CategorySelector struct {
	ID      uint
	Invalid bool
	Raw     string
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *CategorySelector) UnmarshalJSON(data []byte) error {
	*s = CategorySelector{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
	}
	s.Raw = raw

	if raw == "" || strings.EqualFold(raw, UncategorizedValue) {
		return nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		s.Invalid = true
		return nil
	}
	s.ID = uint(id)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s CategorySelector) MarshalJSON() ([]byte, error) {
	if s.ID == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(uint64(s.ID), 10)), nil
}

// IsSet reports whether a concrete category was requested.
func (s CategorySelector) IsSet() bool {
	return s.ID != 0 || s.Invalid
}

// SelectCategory builds a selector for a known category id. Zero selects no category.
func SelectCategory(id uint) CategorySelector {
	return CategorySelector{ID: id}
}
