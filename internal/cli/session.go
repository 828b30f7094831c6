package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"rateconverter/internal/rates"
	"rateconverter/internal/resolver"
)

var errInterrupted = errors.New("interrupted")

// Converter is what the session needs from the conversion layer.
type Converter interface {
	Convert(amount float64, from, to string) (float64, error)
	ExchangeRate(from, to string) (float64, bool)
	SupportedCurrencies() []string
}

// Status describes the active rate table for the header line.
type Status interface {
	LastUpdate() (time.Time, bool)
	Source() resolver.Source
}

type styles struct {
	title  *color.Color
	result *color.Color
	err    *color.Color
	muted  *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		title:  color.New(color.FgCyan, color.Bold),
		result: color.New(color.FgGreen, color.Bold),
		err:    color.New(color.FgRed),
		muted:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.title, s.result, s.err, s.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Session is the interactive prompt loop.
type Session struct {
	in     io.Reader
	out    io.Writer
	conv   Converter
	status Status
	styles styles
}

// Option configures a Session.
type Option func(*Session)

// WithColor turns ANSI colors on or off. Off by default.
func WithColor(enabled bool) Option {
	return func(s *Session) {
		s.styles = newStyles(enabled)
	}
}

func New(in io.Reader, out io.Writer, conv Converter, status Status, opts ...Option) *Session {
	s := &Session{in: in, out: out, conv: conv, status: status, styles: newStyles(false)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run prompts until the user declines to continue, input ends, or ctx is
// canceled. All three are a normal exit; only read failures are returned.
func (s *Session) Run(ctx context.Context) error {
	lines, readErr, stop := s.readLines()
	defer stop()

	prompt := func(label string) (string, error) {
		fmt.Fprint(s.out, label)
		select {
		case <-ctx.Done():
			return "", errInterrupted
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return strings.TrimSpace(line), nil
		}
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, rule)
	s.styles.title.Fprintln(s.out, "CURRENCY CONVERTER")
	fmt.Fprintln(s.out, rule)

	for {
		s.printHeader()

		if err := s.convertOnce(prompt); err != nil {
			return s.finish(err)
		}

		answer, err := prompt("\nConvert another? (y/n): ")
		if err != nil {
			return s.finish(err)
		}
		if strings.ToLower(answer) != "y" {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
	}
}

// convertOnce runs one amount/from/to exchange. Input problems are printed
// and swallowed; only prompt failures are returned.
func (s *Session) convertOnce(prompt func(string) (string, error)) error {
	raw, err := prompt("\nEnter amount to convert: ")
	if err != nil {
		return err
	}
	amount, err := ParseAmount(raw)
	if err != nil {
		s.printError(err)
		return nil
	}
	from, err := prompt("From currency (e.g., USD): ")
	if err != nil {
		return err
	}
	to, err := prompt("To currency (e.g., EUR): ")
	if err != nil {
		return err
	}
	from, to = rates.NormalizeCode(from), rates.NormalizeCode(to)

	result, err := s.conv.Convert(amount, from, to)
	if err != nil {
		s.printError(err)
		return nil
	}
	fmt.Fprintln(s.out)
	s.styles.result.Fprintf(s.out, "%s %s = %.2f %s\n", strconv.FormatFloat(amount, 'f', -1, 64), from, result, to)
	if rate, ok := s.conv.ExchangeRate(from, to); ok {
		fmt.Fprintf(s.out, "Exchange rate: 1 %s = %.4f %s\n", from, rate, to)
	}
	return nil
}

func (s *Session) printHeader() {
	updated := "never (default rates)"
	if ts, ok := s.status.LastUpdate(); ok {
		updated = ts.Format("2006-01-02 15:04:05")
		if src := s.status.Source(); src != resolver.SourceNone {
			updated += fmt.Sprintf(" (%s)", src)
		}
	}
	codes := s.conv.SupportedCurrencies()
	slices.Sort(codes)

	fmt.Fprintf(s.out, "\nLast update: %s\n", updated)
	s.styles.muted.Fprintf(s.out, "Supported currencies: %s\n", strings.Join(codes, ", "))
}

func (s *Session) printError(err error) {
	s.styles.err.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Session) finish(err error) error {
	if errors.Is(err, errInterrupted) || errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out, "\n\nGoodbye!")
		return nil
	}
	return err
}

// readLines feeds input lines to a channel so a blocked prompt can be
// abandoned when the context is canceled. The channel is closed at end of
// input; the scanner error, if any, is sent on the second channel.
func (s *Session) readLines() (<-chan string, <-chan error, func()) {
	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc, func() { close(done) }
}

// ParseAmount reads a decimal amount typed by the user.
func ParseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}
