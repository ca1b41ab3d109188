// Package console implements the interactive menu that drives the catalog
// from a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jsamuelsen/library-catalog/internal/domain"
)

// Menu choices.
const (
	choiceAdd = iota + 1
	choiceRemove
	choiceSearch
	choiceBorrow
	choiceReturn
	choiceList
	choiceExit
)

const menu = `==========Library Management==========

1. Add Book
2. Remove Book
3. Search Books
4. Borrow Book
5. Return Book
6. List All Books
7. Exit
Enter your choice: `

// Catalog is the part of the catalog service the shell drives.
type Catalog interface {
	AddFromInput(ctx context.Context, title, author, identifier string) (domain.Outcome, error)
	Remove(ctx context.Context, identifier string) domain.Outcome
	Search(ctx context.Context, query string) domain.Outcome
	Borrow(ctx context.Context, identifier string) domain.Outcome
	Return(ctx context.Context, identifier string) domain.Outcome
	List(ctx context.Context) domain.Outcome
	Save(ctx context.Context) error
}

// errEndOfInput is returned by readLine when the input is exhausted.
var errEndOfInput = errors.New("end of input")

// Shell reads menu choices line by line and prints outcomes.
type Shell struct {
	catalog Catalog
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
}

// Config contains the dependencies of the shell.
type Config struct {
	Catalog Catalog
	In      io.Reader
	Out     io.Writer

	// Err receives save failures. Defaults to Out.
	Err    io.Writer
	Logger *slog.Logger
}

// New creates a shell.
func New(cfg Config) *Shell {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errOut := cfg.Err
	if errOut == nil {
		errOut = cfg.Out
	}

	return &Shell{
		catalog: cfg.Catalog,
		in:      bufio.NewReader(cfg.In),
		out:     cfg.Out,
		errOut:  errOut,
		logger:  logger.With(slog.String("component", "console")),
	}
}

// Run shows the menu until the user exits or the input ends; both save the
// catalog before returning. The returned error is the save error, if any,
// after it has been reported to the user.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return s.exit(ctx)
		}

		s.printf("%s", menu)

		line, err := s.readLine()
		if err != nil {
			s.println("")
			return s.exit(ctx)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			s.println("Invalid input! Please enter a number.")
			s.println("")

			continue
		}

		if choice == choiceExit {
			return s.exit(ctx)
		}

		if err := s.dispatch(ctx, choice); err != nil {
			return s.exit(ctx)
		}
	}
}

// dispatch runs one menu action. It only fails when input ends while the
// action is prompting.
func (s *Shell) dispatch(ctx context.Context, choice int) error {
	s.logger.DebugContext(ctx, "menu choice", slog.Int("choice", choice))

	switch choice {
	case choiceAdd:
		return s.addBook(ctx)
	case choiceRemove:
		id, err := s.prompt("Enter ISBN: ")
		if err != nil {
			return err
		}

		s.report(s.catalog.Remove(ctx, id))
	case choiceSearch:
		query, err := s.prompt("Enter search query: ")
		if err != nil {
			return err
		}

		s.reportSearch(s.catalog.Search(ctx, query))
	case choiceBorrow:
		id, err := s.prompt("Enter ISBN to borrow: ")
		if err != nil {
			return err
		}

		s.report(s.catalog.Borrow(ctx, id))
	case choiceReturn:
		id, err := s.prompt("Enter ISBN to return: ")
		if err != nil {
			return err
		}

		s.report(s.catalog.Return(ctx, id))
	case choiceList:
		s.report(s.catalog.List(ctx))
	default:
		s.println("Invalid choice")
		s.println("")
	}

	return nil
}

// addBook collects the three fields, then validates them as a whole.
func (s *Shell) addBook(ctx context.Context) error {
	s.println("")

	fields := make([]string, 0, 3)
	for _, label := range []string{"Enter title:", "Enter author:", "Enter ISBN:"} {
		s.println(label)

		value, err := s.readLine()
		if err != nil {
			return err
		}

		fields = append(fields, value)
	}

	out, err := s.catalog.AddFromInput(ctx, fields[0], fields[1], fields[2])
	if err != nil {
		s.printf("Error: %s\n\n", err)
		return nil
	}

	s.println("Book successfully created!")
	s.println("")
	s.report(out)

	return nil
}

func (s *Shell) exit(ctx context.Context) error {
	err := s.catalog.Save(ctx)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error saving library data: %s\n", err)
	} else {
		s.println("Library data saved successfully.")
	}

	s.println("Exiting...")

	return err
}

// report prints an outcome message followed by any records it carries.
func (s *Shell) report(out domain.Outcome) {
	s.println(out.Message)
	s.printRecords(out.Records)
	s.println("")
}

// reportSearch keeps the match header even when nothing matched.
func (s *Shell) reportSearch(out domain.Outcome) {
	if out.Kind == domain.OutcomeNoResults {
		s.println(domain.MsgFound)
	}

	s.report(out)
}

func (s *Shell) printRecords(records []domain.Record) {
	for _, r := range records {
		s.printf("%s by %s\nISBN: %s\nAvailability: %s\n",
			r.Title(), r.Author(), r.Identifier(), r.AvailabilityLabel())
	}
}

func (s *Shell) prompt(label string) (string, error) {
	s.printf("%s", label)
	return s.readLine()
}

// readLine returns the next line without its terminator. Lines have no
// length limit. A read failure is reported and treated as end of input.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		if line == "" {
			return "", errEndOfInput
		}
	default:
		s.logger.Warn("reading console input", slog.Any("error", err))
		fmt.Fprintf(s.errOut, "Error reading input: %s\n", err)

		return "", errEndOfInput
	}

	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
