// Package seqio reads named nucleotide sequences from paired-line or FASTA files.
package seqio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/vibe-phmm/internal/seq"
)

// Format is an input file layout.
type Format int

const (
	// FormatUnknown is reported until the first record has been read.
	FormatUnknown Format = iota
	// FormatPaired alternates an identifier line with a sequence line.
	// Lines starting with ';' are comments.
	FormatPaired
	// FormatFASTA has '>' header lines followed by possibly wrapped sequence.
	FormatFASTA
)

func (f Format) String() string {
	switch f {
	case FormatPaired:
		return "paired"
	case FormatFASTA:
		return "fasta"
	}
	return "unknown"
}

// Parser reads sequences one record at a time.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	format     Format

	// One line of lookahead: the FASTA header of the next record, or the
	// line that decided the format.
	pending     string
	pendingLine int
	hasPending  bool
}

// NewParser opens path for reading. Gzipped files are detected from their
// magic bytes; "-" reads standard input.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sequence file: %w", err)
	}

	p := &Parser{file: file}
	br := bufio.NewReader(file)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}

	return p, nil
}

// NewParserFromReader creates a parser over r.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Format returns the detected layout, FormatUnknown before the first record.
func (p *Parser) Format() Format {
	return p.format
}

// LineNumber returns the number of lines consumed so far.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*seq.Sequence, error) {
	if p.format == FormatUnknown {
		line, ok, err := p.content()
		if err != nil || !ok {
			return nil, err
		}
		p.format = FormatPaired
		if strings.HasPrefix(line, ">") {
			p.format = FormatFASTA
		}
		p.unread(line)
	}

	if p.format == FormatFASTA {
		return p.nextFASTA()
	}
	return p.nextPaired()
}

func (p *Parser) nextPaired() (*seq.Sequence, error) {
	id, ok, err := p.content()
	if err != nil || !ok {
		return nil, err
	}
	idLine := p.lineNumber
	if p.pendingLine > 0 {
		idLine, p.pendingLine = p.pendingLine, 0
	}

	residues, ok, err := p.content()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{
			Line:    idLine,
			Message: fmt.Sprintf("identifier %q has no sequence line", id),
		}
	}

	return &seq.Sequence{Name: id, Residues: residues}, nil
}

func (p *Parser) nextFASTA() (*seq.Sequence, error) {
	header, ok, err := p.content()
	if err != nil || !ok {
		return nil, err
	}
	headerLine := p.lineNumber
	if p.pendingLine > 0 {
		headerLine, p.pendingLine = p.pendingLine, 0
	}
	if !strings.HasPrefix(header, ">") {
		return nil, &ParseError{Line: headerLine, Message: "expected '>' header line"}
	}

	name := strings.TrimSpace(header[1:])
	if fields := strings.Fields(name); len(fields) > 0 {
		name = fields[0]
	}

	var sb strings.Builder
	for {
		line, ok, err := p.content()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if strings.HasPrefix(line, ">") {
			p.unread(line)
			break
		}
		sb.WriteString(line)
	}

	if sb.Len() == 0 {
		return nil, &ParseError{
			Line:    headerLine,
			Message: fmt.Sprintf("record %q has no sequence", name),
		}
	}
	return &seq.Sequence{Name: name, Residues: sb.String()}, nil
}

// content returns the next line that is neither blank nor a comment, with
// surrounding whitespace removed. ok is false at end of input.
func (p *Parser) content() (line string, ok bool, err error) {
	if p.hasPending {
		p.hasPending = false
		return p.pending, true, nil
	}
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", false, fmt.Errorf("read sequence line: %w", err)
		}
		if err == io.EOF && line == "" {
			return "", false, nil
		}
		p.lineNumber++

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		return line, true, nil
	}
}

func (p *Parser) unread(line string) {
	p.pending = line
	p.pendingLine = p.lineNumber
	p.hasPending = true
}

// ReadAll reads every remaining record.
func (p *Parser) ReadAll() ([]seq.Sequence, error) {
	var seqs []seq.Sequence
	for {
		s, err := p.Next()
		if err != nil {
			return nil, err
		}
		if s == nil {
			return seqs, nil
		}
		seqs = append(seqs, *s)
	}
}

// Close closes the underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadFile reads every record of the file at path.
func ReadFile(path string) ([]seq.Sequence, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	seqs, err := p.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return seqs, nil
}

// ParseError represents an error during sequence parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sequence parse error at line %d: %s", e.Line, e.Message)
}
