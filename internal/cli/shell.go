// Package cli implements the interactive contactbook shell and the CSV export.
// The shell reads one command per line, runs it through the command
// middleware chain and prints the result. It holds no contact state itself;
// everything goes through a ContactServicer.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/pkordes/contactbook/internal/domain"
	"github.com/pkordes/contactbook/internal/middleware"
	"github.com/pkordes/contactbook/internal/service"
)

// ContactServicer defines the contact operations the shell depends on.
// Defining the interface here (in the consumer package) lets shell tests
// inject a mock without touching a store.
type ContactServicer interface {
	Add(ctx context.Context, name, phone, birthday string) (service.AddOutcome, error)
	Find(name string) (*domain.Record, error)
	List() []*domain.Record
	AddPhone(ctx context.Context, name, phone string) error
	DeletePhone(ctx context.Context, name, phone string) (int, error)
	EditPhone(ctx context.Context, name, oldPhone, newPhone string) error
	AddBirthday(ctx context.Context, name, birthday string) error
	EditBirthday(ctx context.Context, name, birthday string) error
	DeleteBirthday(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
	UpcomingBirthdays(ctx context.Context, from string) service.BirthdayWindow
	Save(ctx context.Context) error
}

// Shell messages.
const (
	greeting = "Welcome to the assistant bot!"
	prompt   = "Enter a command: "
	farewell = "Good bye!"
)

// ErrUnknownCommand is returned for a command name the shell does not know.
var ErrUnknownCommand = errors.New("invalid command")

// ErrUsage is returned when a command is missing required arguments.
var ErrUsage = errors.New("missing arguments")

type commandFunc func(ctx context.Context, args []string) error

// Shell is the interactive command loop.
type Shell struct {
	svc      ContactServicer
	out      io.Writer
	log      *slog.Logger
	noColor  bool
	p        palette
	commands map[string]commandFunc
	handler  middleware.Handler
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger used by the command middleware. The default is
// slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Shell) { s.log = log }
}

// WithNoColor disables colored output regardless of the terminal.
func WithNoColor(noColor bool) Option {
	return func(s *Shell) { s.noColor = noColor }
}

// NewShell constructs a Shell that prints to out.
func NewShell(svc ContactServicer, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		svc: svc,
		out: out,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.p = newPalette(s.noColor)

	s.commands = map[string]commandFunc{
		"hello":           s.hello,
		"add":             s.add,
		"add-phone":       s.addPhone,
		"add-birthday":    s.addBirthday,
		"phone":           s.phone,
		"birthday":        s.birthday,
		"all":             s.all,
		"delete":          s.delete,
		"delete-phone":    s.deletePhone,
		"delete-birthday": s.deleteBirthday,
		"edit-phone":      s.editPhone,
		"edit-birthday":   s.editBirthday,
		"birthdays":       s.birthdays,
		"birthdays-all":   s.birthdaysAll,
	}

	// Order matters: the logger sees the error a recovered panic turns into.
	s.handler = middleware.Chain(s.dispatch,
		middleware.NewSlogLogger(s.log),
		middleware.Recoverer(s.log),
	)
	return s
}

// Run reads commands from in until close, exit, end of input or ctx
// cancellation, then saves the directory and says good bye.
//
// Command failures are printed and never end the loop. The only error Run
// returns is a failed final save.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx = middleware.WithSessionID(ctx)
	s.log.DebugContext(ctx, "session started", "session_id", middleware.GetSessionID(ctx))

	done := make(chan struct{})
	defer close(done)
	lines := s.readLines(ctx, in, done)

	s.p.greet.Fprintln(s.out, greeting)
	for {
		fmt.Fprint(s.out, prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return s.close(context.WithoutCancel(ctx))
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(s.out)
			return s.close(ctx)
		}

		cmd, ok := parseLine(line)
		if !ok {
			continue
		}
		if cmd.Name == "close" || cmd.Name == "exit" {
			return s.close(ctx)
		}
		if err := s.handler(ctx, cmd); err != nil {
			s.report(err)
		}
	}
}

// readLines feeds input lines to the returned channel and closes it at end
// of input. It stops early once done is closed.
func (s *Shell) readLines(ctx context.Context, in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			s.log.WarnContext(ctx, "reading input failed", "error", err)
		}
	}()
	return lines
}

// close performs the final save.
func (s *Shell) close(ctx context.Context) error {
	err := s.svc.Save(ctx)
	if err != nil {
		s.p.fail.Fprintf(s.out, "An error occurred while saving contacts: %s\n", userMessage(err))
	}
	s.p.bye.Fprintln(s.out, farewell)
	if err != nil {
		return fmt.Errorf("cli.Shell.Run: final save: %w", err)
	}
	return nil
}

// dispatch runs the command registered under cmd.Name.
func (s *Shell) dispatch(ctx context.Context, cmd middleware.Command) error {
	fn, ok := s.commands[cmd.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}
	return fn(ctx, cmd.Args)
}

// shownError marks an error whose message the command already printed.
// It still reaches the middleware so the failure is logged.
type shownError struct{ error }

func (e shownError) Unwrap() error { return e.error }

// report prints a command failure.
func (s *Shell) report(err error) {
	var shown shownError
	if errors.As(err, &shown) {
		return
	}
	if errors.Is(err, ErrUnknownCommand) {
		s.p.fail.Fprintln(s.out, "Invalid command.")
		return
	}
	s.p.fail.Fprintf(s.out, "Error: %s\n", userMessage(err))
}

// palette holds the colors used for each kind of output.
type palette struct {
	greet *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	bye   *color.Color
	name  *color.Color
	label *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		greet: color.New(color.FgCyan),
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		bye:   color.New(color.FgBlue),
		name:  color.New(color.FgMagenta),
		label: color.New(color.FgHiCyan),
	}
	if noColor {
		for _, c := range []*color.Color{p.greet, p.ok, p.warn, p.fail, p.bye, p.name, p.label} {
			c.DisableColor()
		}
	}
	return p
}
