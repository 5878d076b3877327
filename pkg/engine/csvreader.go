package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxFieldLength caps a single cell, in characters. A longer cell fails the
// file as a ProcessingError.
const MaxFieldLength = 131072

var errFieldLimit = fmt.Errorf("field larger than field limit (%d)", MaxFieldLength)

type parseState int

const (
	startRecord parseState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
)

// recordReader splits comma-separated text into records with permissive
// quoting: a quote inside an unquoted cell is literal, text following a
// closing quote is appended to the cell, and a quote left open at end of
// input closes the cell. CR, LF and CRLF all end a line.
type recordReader struct {
	r *bufio.Reader
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{r: bufio.NewReader(r)}
}

// Read returns the next record, skipping blank lines. It returns io.EOF
// once input is exhausted.
func (rr *recordReader) Read() ([]string, error) {
	for {
		record, err := rr.readRecord()
		if err != nil {
			return nil, err
		}
		if len(record) > 0 {
			return record, nil
		}
	}
}

// readRecord returns the next record as-is. A blank line yields an empty,
// non-nil record.
func (rr *recordReader) readRecord() ([]string, error) {
	var (
		record []string
		field  strings.Builder
		chars  int
		state  = startRecord
	)

	save := func() {
		record = append(record, field.String())
		field.Reset()
		chars = 0
	}
	add := func(b byte) error {
		// Continuation bytes belong to a character already counted.
		if b&0xC0 != 0x80 {
			if chars >= MaxFieldLength {
				return errFieldLimit
			}
			chars++
		}
		field.WriteByte(b)
		return nil
	}

	for {
		b, err := rr.r.ReadByte()
		if errors.Is(err, io.EOF) {
			if state == startRecord {
				return nil, io.EOF
			}
			save()
			return record, nil
		}
		if err != nil {
			return nil, err
		}

		if b == '\r' {
			next, err := rr.r.ReadByte()
			if err == nil && next != '\n' {
				_ = rr.r.UnreadByte()
			}
			b = '\n'
		}

		switch state {
		case startRecord:
			if b == '\n' {
				return []string{}, nil
			}
			state = startField
			fallthrough
		case startField:
			switch b {
			case '\n':
				save()
				return record, nil
			case '"':
				state = inQuotedField
			case ',':
				save()
			default:
				if err := add(b); err != nil {
					return nil, err
				}
				state = inField
			}
		case inField:
			switch b {
			case '\n':
				save()
				return record, nil
			case ',':
				save()
				state = startField
			default:
				if err := add(b); err != nil {
					return nil, err
				}
			}
		case inQuotedField:
			if b == '"' {
				state = quoteInQuotedField
				continue
			}
			if err := add(b); err != nil {
				return nil, err
			}
		case quoteInQuotedField:
			switch b {
			case '"':
				if err := add('"'); err != nil {
					return nil, err
				}
				state = inQuotedField
			case ',':
				save()
				state = startField
			case '\n':
				save()
				return record, nil
			default:
				if err := add(b); err != nil {
					return nil, err
				}
				state = inField
			}
		}
	}
}
