package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	Delimiter    = "|"
	FieldCount   = 5
	TimeLayout   = time.RFC3339Nano
	legacyLayout = "2006-01-02 15:04:05.999999999 UTC"
)

// RecordError reports a line of the persisted list that could not be used.
type RecordError struct {
	Line  int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

func corrupt(line int, field string, format string, args ...any) error {
	return &RecordError{
		Line:  line,
		Field: field,
		Err:   fmt.Errorf("%w: %s", ErrCorruptRecord, fmt.Sprintf(format, args...)),
	}
}

// ParseLine decodes one persisted line. An unknown status still yields a
// usable record with StatusTodo together with an error wrapping
// ErrUnknownStatus; every other error wraps ErrCorruptRecord.
func ParseLine(n int, line string) (Record, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != FieldCount {
		return Record{}, corrupt(n, "", "expected %d fields matching 'id|DateTime|DateTime|Status|Description', got %d", FieldCount, len(fields))
	}

	id, err := strconv.ParseUint(fields[0], 10, 16)
	if err != nil {
		return Record{}, corrupt(n, "id", "%q is not a valid id", fields[0])
	}
	created, err := ParseTime(fields[1])
	if err != nil {
		return Record{}, corrupt(n, "date_created", "%q is not a valid timestamp", fields[1])
	}
	modified, err := ParseTime(fields[2])
	if err != nil {
		return Record{}, corrupt(n, "date_modified", "%q is not a valid timestamp", fields[2])
	}

	if strings.TrimSpace(fields[4]) == "" {
		return Record{}, corrupt(n, "description", "description is empty")
	}

	rec := Record{
		ID:          uint16(id),
		Created:     created,
		Modified:    modified,
		Description: fields[4],
	}
	status, err := ParseStatus(fields[3])
	rec.Status = status
	if err != nil {
		return rec, &RecordError{Line: n, Field: "status", Err: err}
	}
	return rec, nil
}

// IDSet detects an id used by more than one line.
type IDSet struct {
	lines map[uint16]int
}

func NewIDSet() IDSet {
	return IDSet{lines: make(map[uint16]int)}
}

// Add records id as seen on line n. A repeated id is a RecordError wrapping
// ErrCorruptRecord.
func (s IDSet) Add(n int, id uint16) error {
	if first, ok := s.lines[id]; ok {
		return corrupt(n, "id", "id %d is already used on line %d", id, first)
	}
	s.lines[id] = n
	return nil
}

func FormatLine(r Record) string {
	return strings.Join([]string{
		strconv.FormatUint(uint64(r.ID), 10),
		FormatTime(r.Created),
		FormatTime(r.Modified),
		string(r.Status),
		r.Description,
	}, Delimiter)
}

// ReadRecords decodes a whole persisted list. Unknown statuses are passed to
// warn and recovered; any other problem, including an id used twice, aborts
// with no partial result.
func ReadRecords(r io.Reader, warn func(error)) ([]Record, error) {
	out := make([]Record, 0)
	ids := NewIDSet()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		rec, err := ParseLine(n, scanner.Text())
		if err != nil {
			if !errors.Is(err, ErrUnknownStatus) {
				return nil, err
			}
			if warn != nil {
				warn(err)
			}
		}
		if err := ids.Add(n, rec.ID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &RecordError{Line: n + 1, Err: fmt.Errorf("%w: %v", ErrCorruptRecord, err)}
	}
	return out, nil
}

func WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(FormatLine(rec) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts RFC3339 text as well as the "<date> <time> UTC" form
// written by earlier versions of the list file.
func ParseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(legacyLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
