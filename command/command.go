// Package command parses calculator input. Input is line oriented: one
// command per line, a command letter followed by its arguments. Scripts may
// also contain comments and heredoc payloads:
//
//	# build two sets
//	x 1,2,3
//	y 3,4
//	u
//	l <<END
//	x % 2 == 0
//	  ? x / 2
//	  : 3 * x + 1
//	END
package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Commands is a slice of Command
type Commands []Command

// Command is one parsed input line. The payload is kept whole; each command
// decides how to read its own arguments.
type Command struct {
	LineNo  int    // Line number where the command starts
	Name    string // Command token, lower-cased (cannot be empty)
	Payload string // Everything after the command token, trimmed
}

// Line reassembles the command as it would be typed.
func (c *Command) Line() string {
	if c.Payload == "" {
		return c.Name
	}
	return c.Name + " " + c.Payload
}

// Parser reads commands from a reader
type Parser struct {
	scanner *bufio.Scanner
	lineNo  int     // The line number of the most recently peeked/consumed line
	peeked  *string // If not nil, it holds the last peeked line that hasn't been consumed yet
	eof     bool    // True if we've reached the end of the reader
}

// NewParser creates a new Parser instance
func NewParser(r io.Reader) *Parser {
	return &Parser{
		scanner: bufio.NewScanner(r),
	}
}

// Parse parses the input and returns all commands
func Parse(input string) (Commands, error) {
	return ParseReader(strings.NewReader(input))
}

// ParseReader parses from an io.Reader and returns all commands
func ParseReader(r io.Reader) (Commands, error) {
	return NewParser(r).Parse()
}

// ParseLine parses a single interactive line. It returns nil for a blank
// line or a comment. Heredoc markers are left in the payload.
func ParseLine(line string) (*Command, error) {
	body := normalize(line)
	if skippable(body) {
		return nil, nil
	}
	name, payload := splitName(body)
	return newCommand(0, name, payload)
}

// Parse parses all commands from the input
func (p *Parser) Parse() (cmds Commands, err error) {
	for {
		cmd, err := p.ParseCommand()
		if err != nil {
			return cmds, err
		}
		if cmd == nil {
			break
		}
		cmds = append(cmds, *cmd)
	}
	return cmds, nil
}

// ParseCommand parses and returns the next command from the input.
// Returns nil when there are no more commands to parse, which lets a caller
// execute a script one command at a time.
func (p *Parser) ParseCommand() (*Command, error) {
	err := p.skipEmptyAndComments()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	line, err := p.consumeLine()
	if err != nil {
		return nil, err
	}
	lineNo := p.lineNo

	name, payload := splitName(normalize(line))
	if IsHeredoc(payload) {
		payload, err = p.parseHeredocPayload(payload)
		if err != nil {
			return nil, &LineError{LineNo: lineNo, Err: err}
		}
	}

	cmd, err := newCommand(lineNo, name, payload)
	if err != nil {
		return nil, &LineError{LineNo: lineNo, Err: err}
	}
	return cmd, nil
}

// LineError attaches a script line number to a parse error.
type LineError struct {
	LineNo int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.LineNo, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// IsHeredoc reports whether a payload opens a heredoc ("<<MARKER").
func IsHeredoc(payload string) bool {
	return strings.HasPrefix(payload, "<<")
}

func newCommand(lineNo int, name, payload string) (*Command, error) {
	if name == "" {
		return nil, errors.New("command name cannot be empty")
	}
	return &Command{
		LineNo:  lineNo,
		Name:    name,
		Payload: payload,
	}, nil
}

// normalize lower-cases the line and trims surrounding whitespace. Command
// letters, labels and transform variables are all case-insensitive.
func normalize(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

func skippable(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// splitName splits a line at the first run of whitespace.
func splitName(line string) (name, payload string) {
	idx := strings.IndexFunc(line, isSpace)
	if idx == -1 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// --- Core "peek" / "consume" mechanism --- //

// peekLine returns the next line without consuming it.
// If EOF has been reached, it returns an io.EOF error.
func (p *Parser) peekLine() (string, error) {
	if p.eof {
		return "", io.EOF
	}
	if p.peeked != nil {
		return *p.peeked, nil
	}
	if p.scanner.Scan() {
		p.lineNo++
		line := p.scanner.Text()
		p.peeked = &line
		return line, nil
	}
	p.eof = true
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// consumeLine returns the next line and advances the scanner for real.
// If EOF has been reached, it returns an io.EOF error.
func (p *Parser) consumeLine() (string, error) {
	line, err := p.peekLine()
	if err != nil {
		return "", err
	}
	p.peeked = nil
	return line, nil
}

// skipEmptyAndComments discards blank lines and comments, leaving the next
// command line peeked but not consumed.
func (p *Parser) skipEmptyAndComments() error {
	for {
		line, err := p.peekLine()
		if err != nil {
			return err
		}
		if skippable(strings.TrimSpace(line)) {
			if _, err := p.consumeLine(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// parseHeredocPayload reads the lines following a "<<MARKER" payload up to a
// line holding only the marker. The marker is matched
// case-insensitively since the rest of the input is lower-cased.
func (p *Parser) parseHeredocPayload(header string) (string, error) {
	marker := strings.TrimSpace(strings.TrimPrefix(header, "<<"))
	if marker == "" {
		return "", errors.New("empty heredoc marker")
	}

	var lines []string
	for {
		next, err := p.consumeLine()
		if err != nil {
			return "", errors.New("unclosed heredoc: " + marker)
		}
		if normalize(next) == marker {
			break
		}
		lines = append(lines, strings.ToLower(next))
	}
	return strings.Join(lines, "\n"), nil
}
