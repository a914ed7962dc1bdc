package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ygo/ydk-maker/internal/ydk"
)

// Session runs the interactive prompts over a single input stream
type Session struct {
	in        *bufio.Scanner
	out       io.Writer
	sentinel  string
	extension string
}

func NewSession(in io.Reader, out io.Writer, sentinel, extension string) *Session {
	if sentinel == "" {
		sentinel = "done"
	}
	if extension == "" {
		extension = ydk.DefaultExtension
	}
	return &Session{
		in:        bufio.NewScanner(in),
		out:       out,
		sentinel:  sentinel,
		extension: extension,
	}
}

// AskFormat prompts for an optional format restriction, blank means none
func (s *Session) AskFormat() (string, error) {
	fmt.Fprintln(s.out, "Select the format you are playing (leave blank for no restriction):")
	fmt.Fprintln(s.out, "Examples: 'GOAT', 'Modern', 'TCG', 'OCG'.")
	fmt.Fprint(s.out, "Enter format (or press Enter for no restriction): ")

	line, err := s.readLine()
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadDeckList collects lines until the sentinel line or end of input
func (s *Session) ReadDeckList() (string, error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Enter your deck list. Use '#main', '#extra', and '#side' headers for sections.")
	fmt.Fprintln(s.out, "Examples of valid inputs:")
	fmt.Fprintln(s.out, "  '1x Pot of Greed'")
	fmt.Fprintln(s.out, "  'x1 Pot of Greed'")
	fmt.Fprintln(s.out, "  '1 Pot of Greed'")
	fmt.Fprintln(s.out, "Leave '#extra' and '#side' sections empty if you don't have cards for those.")
	fmt.Fprintf(s.out, "When you're done, type '%s' (case insensitive) to finish.\n", strings.ToUpper(s.sentinel))
	fmt.Fprintln(s.out, strings.Repeat("-", 50))

	var lines []string
	for {
		line, err := s.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.EqualFold(strings.TrimSpace(line), s.sentinel) {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// AskFileName prompts for the output file name until a non-blank one is
// given and returns it with the deck extension appended when missing.
func (s *Session) AskFileName() (string, error) {
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Enter the name of the %s file you want to create (spaces allowed):\n", s.label())

	for {
		line, err := s.readLine()
		if err == io.EOF {
			return "", ydk.ErrEmptyFileName
		}
		if err != nil {
			return "", err
		}

		name, err := ydk.EnsureExtension(line, s.extension)
		if err == ydk.ErrEmptyFileName {
			fmt.Fprintln(s.out, "File name cannot be empty, try again:")
			continue
		}
		return name, err
	}
}

// Done reports where the deck file was written
func (s *Session) Done(path string) {
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "%s file created at: %s\n", s.label(), path)
}

func (s *Session) label() string {
	return strings.ToUpper(strings.TrimPrefix(s.extension, "."))
}

func (s *Session) readLine() (string, error) {
	if s.in.Scan() {
		return s.in.Text(), nil
	}
	if err := s.in.Err(); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return "", io.EOF
}
