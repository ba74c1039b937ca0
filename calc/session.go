package calc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mohamadnahleh/set-calculator/command"
	"github.com/mohamadnahleh/set-calculator/history"
)

// DefaultPrompt is printed before each interactive command.
const DefaultPrompt = "Enter command>"

// Session drives a Calculator from a stream of input lines and records each
// executed line in History.
type Session struct {
	Calc      *Calculator
	History   history.Store
	SessionID int64
	Prompt    string
	Logger    *slog.Logger
}

// NewSession creates a Session. A nil history store records nothing.
func NewSession(c *Calculator, h history.Store, logger *slog.Logger) *Session {
	if h == nil {
		h = history.Discard{}
	}
	if logger == nil {
		logger = c.Logger
	}
	return &Session{
		Calc:    c,
		History: h,
		Prompt:  DefaultPrompt,
		Logger:  logger,
	}
}

// Start allocates a history session id.
func (s *Session) Start(ctx context.Context) error {
	id, err := s.History.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start history session: %w", err)
	}
	s.SessionID = id
	s.Logger.Debug("session started", "id", id)
	return nil
}

// Run is the interactive loop. Before each command it prints every set and
// the prompt. It returns nil on the quit command or at end of input.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := RenderSnapshot(out, s.Calc.Store.Snapshot()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprint(out, s.Prompt); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}
		line := scanner.Text()
		fmt.Fprintln(out)

		res := s.Calc.ExecuteLine(line)
		if res.Output != "" {
			if _, err := fmt.Fprintln(out, res.Output); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		s.Record(ctx, line, res)

		if res.Quit {
			return nil
		}
	}
}

// RunScript executes every command read from r. The first rejected command
// stops the script and is returned as a *command.LineError. The final state
// of the sets is printed when the script completes or quits.
func (s *Session) RunScript(ctx context.Context, r io.Reader, out io.Writer) error {
	parser := command.NewParser(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd, err := parser.ParseCommand()
		if err != nil {
			return err
		}
		if cmd == nil {
			break
		}

		res := s.Calc.Execute(cmd)
		s.Record(ctx, cmd.Line(), res)
		if res.Failed {
			return &command.LineError{LineNo: cmd.LineNo, Err: errors.New(strings.TrimPrefix(res.Output, "error: "))}
		}
		if res.Output != "" {
			if _, err := fmt.Fprintln(out, res.Output); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if res.Quit {
			break
		}
	}
	if err := RenderSnapshot(out, s.Calc.Store.Snapshot()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Record stores an executed line. Storage failures are logged, never
// returned: losing history must not stop the calculator.
func (s *Session) Record(ctx context.Context, line string, res Result) {
	if strings.TrimSpace(line) == "" {
		return
	}
	entry := &history.Entry{
		SessionID: s.SessionID,
		Line:      line,
		Output:    res.Output,
		Failed:    res.Failed,
	}
	if err := s.History.Record(ctx, entry); err != nil {
		s.Logger.Warn("failed to record history", "err", err)
	}
}
