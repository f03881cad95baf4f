package plan

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is the interface for readers that produce plans.
type Source interface {
	// Next reads the next plan.
	// Returns nil, nil when there are no more plans.
	Next() (*Plan, error)

	// Close closes the source and releases resources.
	Close() error

	// Document returns the number of the document last read.
	Document() int
}

// Parser reads plans from a multi-document YAML file.
type Parser struct {
	dec        *yaml.Decoder
	file       *os.File
	gzipReader *gzip.Reader
	document   int
}

// NewParser creates a parser for the given file. Gzipped files are detected
// by their magic bytes; "-" reads from stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}

	p := &Parser{file: file}

	br := bufio.NewReader(file)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, fmt.Errorf("read plan header: %w", err)
	}

	var r io.Reader = br
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r = p.gzipReader
	}

	p.dec = newDecoder(r)
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{dec: newDecoder(r)}
}

func newDecoder(r io.Reader) *yaml.Decoder {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec
}

// Next reads the next plan. Empty documents are skipped.
// Returns nil, nil when there are no more plans.
func (p *Parser) Next() (*Plan, error) {
	for {
		var pl Plan
		err := p.dec.Decode(&pl)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		p.document++
		if err != nil {
			return nil, &ParseError{Document: p.document, Message: err.Error()}
		}
		if pl.empty() {
			continue
		}
		if pl.ID == "" {
			return nil, &ParseError{Document: p.document, Message: "missing id"}
		}
		return &pl, nil
	}
}

// Document returns the number of the document last read, starting at 1.
func (p *Parser) Document() int {
	return p.document
}

// Close closes the underlying file, if any.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

func (pl *Plan) empty() bool {
	return pl.ID == "" && pl.Bounds == Bounds{} && len(pl.Cuts) == 0 &&
		pl.Sequence == "" && pl.SequenceID == "" && !pl.Circular
}

// ParseError reports a malformed plan document.
type ParseError struct {
	Document int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("plan parse error in document %d: %s", e.Document, e.Message)
}
