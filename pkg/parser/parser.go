package parser

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record represents a single JSON object
type Record map[string]interface{}

// Parser streams records from a JSON or JSONL input.
//
// JSON input may be a single object, a sequence of objects or an array of
// objects. JSONL input holds one object per line; blank lines are skipped.
type Parser struct {
	src     io.ReadCloser
	isJSONL bool

	decoder   *json.Decoder
	scanner   *bufio.Scanner
	bufReader *bufio.Reader

	startArrayChecked bool
	inArray           bool

	peeked  Record
	peekErr error
	hasPeek bool
}

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

// NewParser creates a new parser for the given input
// Special cases:
// - Empty string or "-" reads from stdin
// - Strings starting with '{' or '[' are treated as inline JSON
func NewParser(filename string) (*Parser, error) {
	switch {
	case IsInline(filename):
		return NewReader(nopCloser{strings.NewReader(filename)}, false), nil
	case filename == "" || filename == "-":
		return NewReader(nopCloser{os.Stdin}, false), nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewReader(file, strings.HasSuffix(filename, ".jsonl")), nil
}

// NewReader creates a parser over r. Close closes r.
func NewReader(r io.ReadCloser, isJSONL bool) *Parser {
	p := &Parser{src: r, isJSONL: isJSONL}
	if isJSONL {
		p.scanner = bufio.NewScanner(r)
		p.scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	} else {
		p.bufReader = bufio.NewReader(r)
		p.decoder = json.NewDecoder(p.bufReader)
	}
	return p
}

// IsInline reports whether name is a JSON document rather than a path.
func IsInline(name string) bool {
	return len(name) > 0 && (name[0] == '{' || name[0] == '[')
}

// Close closes the underlying input
func (p *Parser) Close() error {
	return p.src.Close()
}

// IsJSONL returns whether the parser is treating the input as JSONL
func (p *Parser) IsJSONL() bool {
	return p.isJSONL
}

// Peek returns the next record without consuming it.
func (p *Parser) Peek() (Record, error) {
	if !p.hasPeek {
		p.peeked, p.peekErr = p.read()
		p.hasPeek = true
	}
	return p.peeked, p.peekErr
}

// Read reads the next record. It returns io.EOF once the input is drained.
func (p *Parser) Read() (Record, error) {
	if p.hasPeek {
		p.hasPeek = false
		record, err := p.peeked, p.peekErr
		p.peeked, p.peekErr = nil, nil
		return record, err
	}
	return p.read()
}

func (p *Parser) read() (Record, error) {
	if p.isJSONL {
		return p.readLine()
	}

	if !p.startArrayChecked {
		// Peek first non-whitespace byte
		for {
			b, err := p.bufReader.Peek(1)
			if err != nil {
				return nil, err
			}
			c := b[0]
			if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
				p.bufReader.ReadByte()
				continue
			}
			if c == '[' {
				if _, err := p.decoder.Token(); err != nil {
					return nil, err
				}
				p.inArray = true
			}
			p.startArrayChecked = true
			break
		}
	}

	if p.inArray && !p.decoder.More() {
		// Consume closing ']'
		t, err := p.decoder.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := t.(json.Delim); ok && delim == ']' {
			p.inArray = false
			return nil, io.EOF
		}
		return nil, fmt.Errorf("expected array end, got %v", t)
	}

	var record Record
	if err := p.decoder.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode JSON record: %w", err)
	}
	return record, nil
}

func (p *Parser) readLine() (Record, error) {
	for p.scanner.Scan() {
		line := p.scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSONL record: %w", err)
		}
		return record, nil
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ReadAll reads every remaining record.
func (p *Parser) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := p.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}
