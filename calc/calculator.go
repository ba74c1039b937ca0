// Package calc executes calculator commands against a set store.
package calc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/mohamadnahleh/set-calculator/algebra"
	"github.com/mohamadnahleh/set-calculator/bst"
	"github.com/mohamadnahleh/set-calculator/command"
	"github.com/mohamadnahleh/set-calculator/expr"
	"github.com/mohamadnahleh/set-calculator/setstore"
)

// InvalidCommand is shown for an unrecognised command token.
const InvalidCommand = "Invalid command... Try again."

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidInteger  = errors.New("invalid integer")
)

// Result is the outcome of one command.
type Result struct {
	Output string // text to show the user; may be empty
	Quit   bool   // the user asked to leave
	Failed bool   // the command was rejected or its transform failed
}

// Calculator applies commands to a Store. It never returns errors for user
// mistakes; those come back as a failed Result.
type Calculator struct {
	Store      *setstore.Store
	Transforms *expr.Registry
	Logger     *slog.Logger
}

// New creates a Calculator over store. A nil registry means no named
// transforms.
func New(store *setstore.Store, transforms *expr.Registry, logger *slog.Logger) *Calculator {
	if transforms == nil {
		transforms = expr.NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Calculator{
		Store:      store,
		Transforms: transforms,
		Logger:     logger,
	}
}

// ExecuteLine parses and executes one interactive line. Blank lines and
// comments yield an empty Result.
func (c *Calculator) ExecuteLine(line string) Result {
	cmd, err := command.ParseLine(line)
	if err != nil {
		return failure(err)
	}
	if cmd == nil {
		return Result{}
	}
	return c.Execute(cmd)
}

// Execute runs a parsed command.
func (c *Calculator) Execute(cmd *command.Command) Result {
	c.Logger.Debug("execute", "cmd", cmd.Name, "payload", cmd.Payload)

	switch cmd.Name {
	case "x", "y", "z":
		label, _ := setstore.ParseLabel(cmd.Name)
		args, err := splitArgs(cmd.Payload)
		if err != nil {
			return failure(err)
		}
		values, err := ParseIntList(strings.Join(args, " "))
		if err != nil {
			return failure(err)
		}
		// labels come from ParseLabel, so Replace and Swap cannot fail here
		_ = c.Store.Replace(label, bst.FromSlice(values))

	case "a":
		args, err := splitArgs(cmd.Payload)
		if err != nil {
			return failure(err)
		}
		if len(args) == 0 {
			return failure(fmt.Errorf("%w: a <value>", ErrMissingArgument))
		}
		if len(args) > 1 {
			return failure(fmt.Errorf("%w: a takes one value, got %d", ErrInvalidArgument, len(args)))
		}
		v, err := parseInt(args[0])
		if err != nil {
			return failure(err)
		}
		c.Store.Get(setstore.X).Insert(v)

	case "r":
		c.Store.Rotate()

	case "s":
		_ = c.Store.Swap(setstore.X, setstore.Y)

	case "u":
		_ = c.Store.Replace(setstore.X, algebra.Union(c.Store.Get(setstore.X), c.Store.Get(setstore.Y)))

	case "i":
		_ = c.Store.Replace(setstore.X, algebra.Intersection(c.Store.Get(setstore.X), c.Store.Get(setstore.Y)))

	case "c":
		_ = c.Store.Replace(setstore.Y, algebra.Clone(c.Store.Get(setstore.X)))

	case "l":
		return c.lambda(cmd.Payload)

	case "h":
		return Result{Output: c.help()}

	case "q":
		return Result{Quit: true}

	default:
		c.Logger.Debug("invalid command", "cmd", cmd.Name)
		return Result{Output: InvalidCommand, Failed: true}
	}

	return Result{}
}

func (c *Calculator) lambda(src string) Result {
	if src == "" {
		return failure(fmt.Errorf("%w: l <expression>", ErrMissingArgument))
	}
	if command.IsHeredoc(src) {
		return failure(errors.New("heredoc payloads are only supported in scripts"))
	}
	prog, err := c.Transforms.Compile(src)
	if err != nil {
		return failure(err)
	}

	values, err := algebra.Map(c.Store.Get(setstore.X), prog.Eval)
	if err != nil {
		c.Logger.Debug("transform failed", "src", src, "err", err)
		return failure(err)
	}
	return Result{Output: "Lambda: " + joinInts(values)}
}

func (c *Calculator) help() string {
	var sb strings.Builder
	sb.WriteString(helpText)
	if names := c.Transforms.Names(); len(names) > 0 {
		sb.WriteString("\nnamed transforms: ")
		sb.WriteString(strings.Join(names, ", "))
	}
	return sb.String()
}

const helpText = `x|y|z v1,v2,...  replace the set with the listed values
a v              insert v into X
r                rotate: X <- Z, Y <- X, Z <- Y
s                swap X and Y
u                X <- X union Y
i                X <- X intersect Y
c                Y <- copy of X
l expr           apply expr to each value of X, e.g. l x * x
h                show this help
q                quit`

// splitArgs tokenizes the payload of x, y, z and a shell-style, so a quoted
// "1, 2" stays one token. '#' and '\' are rejected, not read as a comment
// or an escape.
func splitArgs(payload string) ([]string, error) {
	if i := strings.IndexAny(payload, `#\`); i >= 0 {
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidArgument, payload[i:i+1])
	}
	args, err := shlex.Split(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return args, nil
}

func failure(err error) Result {
	return Result{Output: "error: " + err.Error(), Failed: true}
}

// ParseIntList parses a comma separated list such as "1, 2,3".
func ParseIntList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: expected a comma separated list of integers", ErrMissingArgument)
	}
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := parseInt(part)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidInteger, s)
	}
	return v, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// RenderSnapshot writes one line per set, each value followed by a space:
//
//	X: 1 3 5
//	Y:
//	Z: 2
func RenderSnapshot(w io.Writer, entries []setstore.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, formatEntry(e)); err != nil {
			return err
		}
	}
	return nil
}

func formatEntry(e setstore.Entry) string {
	var sb strings.Builder
	sb.WriteString(string(e.Label))
	sb.WriteString(": ")
	for _, v := range e.Values {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Snapshot renders the current store as RenderSnapshot does.
func (c *Calculator) Snapshot() string {
	var sb strings.Builder
	// writes to a strings.Builder never fail
	_ = RenderSnapshot(&sb, c.Store.Snapshot())
	return sb.String()
}
