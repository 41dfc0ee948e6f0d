package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode"
)

var (
	ErrCorruptRecord    = errors.New("model: corrupt record")
	ErrUnknownStatus    = errors.New("model: unknown status")
	ErrIDSpaceExhausted = errors.New("model: id space exhausted")
)

type Status string

const (
	StatusTodo Status = "Todo"
	StatusDone Status = "Done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusDone:
		return true
	default:
		return false
	}
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return StatusTodo, fmt.Errorf("%w: %q, try using 'Todo/Done'", ErrUnknownStatus, raw)
	}
	return s, nil
}

type Record struct {
	ID          uint16
	Created     time.Time
	Modified    time.Time
	Status      Status
	Description string
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("model: record description is required")
	}
	if strings.Contains(r.Description, Delimiter) {
		return fmt.Errorf("model: record description must not contain %q", Delimiter)
	}
	if strings.ContainsFunc(r.Description, unicode.IsControl) {
		return errors.New("model: record description must not contain control characters")
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, r.Status)
	}
	if r.Created.IsZero() || r.Modified.IsZero() {
		return errors.New("model: record timestamps are required")
	}
	return nil
}

// NextID returns the smallest id not used by any record.
func NextID(records []Record) (uint16, error) {
	used := make([]uint16, 0, len(records))
	for _, r := range records {
		used = append(used, r.ID)
	}
	slices.Sort(used)

	next := 0
	for _, id := range used {
		if int(id) > next {
			break
		}
		if int(id) == next {
			next++
		}
	}
	if next > math.MaxUint16 {
		return 0, ErrIDSpaceExhausted
	}
	return uint16(next), nil
}

// CleanDescription makes user text fit the description field: runs of
// control characters (line breaks, tabs) become one space, the field
// delimiter becomes "¦" and the result is trimmed.
func CleanDescription(raw string) string {
	var b strings.Builder
	inControl := false
	for _, r := range raw {
		if unicode.IsControl(r) {
			if !inControl {
				b.WriteRune(' ')
			}
			inControl = true
			continue
		}
		inControl = false
		b.WriteRune(r)
	}
	cleaned := strings.TrimSpace(b.String())
	return strings.ReplaceAll(cleaned, Delimiter, "¦")
}
