// Package fasta loads sequence text for digest plans.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Loader loads sequences from a FASTA file keyed by record ID.
type Loader struct {
	path      string
	sequences map[string]string // record id -> sequence
	order     []string
}

// NewLoader creates a new FASTA loader.
func NewLoader(path string) *Loader {
	return &Loader{
		path:      path,
		sequences: make(map[string]string),
	}
}

// Load parses the FASTA file and stores sequences indexed by record ID.
func (l *Loader) Load() error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader)
}

func (l *Loader) parse(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	// Plasmid and chromosome records can be long single lines.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	var currentID string
	var currentSeq strings.Builder

	save := func() {
		if currentID == "" {
			return
		}
		if _, dup := l.sequences[currentID]; !dup {
			l.order = append(l.order, currentID)
		}
		l.sequences[currentID] = strings.ToUpper(currentSeq.String())
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, ">"):
			save()
			currentID = parseHeader(line)
			currentSeq.Reset()
		case strings.HasPrefix(line, ";"):
			// comment
		default:
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}
	save()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}
	return nil
}

// parseHeader returns the record ID: the header up to the first space or pipe.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " \t|"); idx != -1 {
		return header[:idx]
	}
	return header
}

// GetSequence returns the sequence for a record ID, or "" if unknown.
func (l *Loader) GetSequence(id string) string {
	return l.sequences[id]
}

// HasSequence checks if a sequence exists for the given record ID.
func (l *Loader) HasSequence(id string) bool {
	_, ok := l.sequences[id]
	return ok
}

// SequenceCount returns the number of loaded sequences.
func (l *Loader) SequenceCount() int {
	return len(l.sequences)
}

// IDs returns record IDs in file order.
func (l *Loader) IDs() []string {
	return append([]string(nil), l.order...)
}
