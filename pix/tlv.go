package pix

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ericlevine/pixqr"
)

// maxFieldLength is the largest value a two digit length prefix can carry.
const maxFieldLength = 99

// Field is one ID/length/value data object. Length is implied by Value.
type Field struct {
	ID    string
	Value string
}

// tlvWriter appends fields in call order. Lengths count characters. A
// strict writer fails on values longer than 99 characters; a lenient one
// truncates them.
type tlvWriter struct {
	sb      strings.Builder
	lenient bool
	err     error
}

func (w *tlvWriter) field(id, value string) {
	if w.err != nil {
		return
	}
	n := utf8.RuneCountInString(value)
	if n > maxFieldLength {
		if !w.lenient {
			w.err = fmt.Errorf("%w: field %s has %d characters", pixqr.ErrFieldTooLong, id, n)
			return
		}
		value, n = truncate(value, maxFieldLength), maxFieldLength
	}
	fmt.Fprintf(&w.sb, "%s%02d%s", id, n, value)
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// optional writes the field only when value is not empty.
func (w *tlvWriter) optional(id, value string) {
	if value != "" {
		w.field(id, value)
	}
}

// template writes a field whose value is the nested fields written by fill.
// An empty template is omitted.
func (w *tlvWriter) template(id string, fill func(*tlvWriter)) {
	if w.err != nil {
		return
	}
	inner := &tlvWriter{lenient: w.lenient}
	fill(inner)
	if inner.err != nil {
		w.err = inner.err
		return
	}
	w.optional(id, inner.sb.String())
}

func (w *tlvWriter) String() string {
	return w.sb.String()
}

// ParseTLV splits s into its top level fields. Lengths count characters.
func ParseTLV(str string) ([]Field, error) {
	s := []rune(str)
	var fields []Field
	for i := 0; i < len(s); {
		if len(s)-i < 4 {
			return nil, fmt.Errorf("%w: truncated field header at offset %d", pixqr.ErrFormat, i)
		}
		id := string(s[i : i+2])
		n, err := strconv.Atoi(string(s[i+2 : i+4]))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad length %q for field %s", pixqr.ErrFormat, string(s[i+2:i+4]), id)
		}
		i += 4
		if len(s)-i < n {
			return nil, fmt.Errorf("%w: field %s wants %d characters, %d left", pixqr.ErrFormat, id, n, len(s)-i)
		}
		fields = append(fields, Field{ID: id, Value: string(s[i : i+n])})
		i += n
	}
	return fields, nil
}

func lookup(fields []Field, id string) (string, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f.Value, true
		}
	}
	return "", false
}
