package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	colorAccent = lipgloss.Color("99")
	colorMuted  = lipgloss.Color("241")
	colorDanger = lipgloss.Color("196")
	colorInfo   = lipgloss.Color("75")
	colorBorder = lipgloss.Color("238")
)

type styles struct {
	step     lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	command  lipgloss.Style
	label    lipgloss.Style
	err      lipgloss.Style
	status   lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			step: plain, title: plain, subtitle: plain, label: plain, err: plain, status: plain,
			command: plain.PaddingLeft(2),
		}
	}
	return styles{
		step:     lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		title:    lipgloss.NewStyle().Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(colorMuted),
		command: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		label:  lipgloss.NewStyle().Foreground(colorAccent),
		err:    lipgloss.NewStyle().Foreground(colorDanger),
		status: lipgloss.NewStyle().Foreground(colorInfo),
	}
}

type TerminalOptions struct {
	// Clipboard copies each presented command to the system clipboard.
	Clipboard bool
	Log       zerolog.Logger
}

// Terminal renders screens as text on out and reads submissions from in.
// Styling is enabled only when out is a TTY.
type Terminal struct {
	in        *bufio.Reader
	out       io.Writer
	styles    styles
	clipboard bool
	copy      func(string) error
	log       zerolog.Logger
	screen    Screen
	visible   bool
}

func NewTerminal(in io.Reader, out io.Writer, opts TerminalOptions) *Terminal {
	return &Terminal{
		in:        bufio.NewReader(in),
		out:       out,
		styles:    newStyles(isTTY(out)),
		clipboard: opts.Clipboard && !clipboard.Unsupported,
		copy:      clipboard.WriteAll,
		log:       opts.Log,
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) Show() {
	if t.visible {
		return
	}
	t.visible = true
	fmt.Fprintln(t.out)
}

func (t *Terminal) Hide() {
	if !t.visible {
		return
	}
	t.visible = false
	t.screen = Screen{}
	fmt.Fprintln(t.out)
}

func (t *Terminal) Render(screen Screen) {
	t.screen = screen
	if screen.Step != "" {
		fmt.Fprintln(t.out, t.styles.step.Render(screen.Step))
	}
	fmt.Fprintln(t.out, t.styles.title.Render(screen.Title))
	if screen.Subtitle != "" {
		fmt.Fprintln(t.out, t.styles.subtitle.Render(screen.Subtitle))
	}
	if screen.Command != "" {
		fmt.Fprintln(t.out)
		fmt.Fprintln(t.out, t.styles.command.Render(screen.Command))
		t.copyCommand(screen.Command)
	}
	fmt.Fprintln(t.out)
	if screen.Multiline {
		fmt.Fprintln(t.out, t.styles.subtitle.Render(screen.Placeholder))
		fmt.Fprintln(t.out, t.styles.subtitle.Render("Finish with an empty line."))
		return
	}
	if screen.Placeholder != "" {
		fmt.Fprintln(t.out, t.styles.subtitle.Render(screen.Placeholder))
	}
}

func (t *Terminal) copyCommand(command string) {
	if !t.clipboard {
		return
	}
	if err := t.copy(command); err != nil {
		t.log.Debug().Err(err).Msg("clipboard copy failed, command printed only")
		return
	}
	fmt.Fprintln(t.out, t.styles.subtitle.Render("Copied to clipboard."))
}

func (t *Terminal) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, t.styles.label.Render(t.label()+" > "))
	if !t.screen.Multiline {
		line, err := t.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	var lines []string
	for {
		line, err := t.in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == "" && err == nil {
			break
		}
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func (t *Terminal) label() string {
	if t.screen.ButtonText == "" {
		return "Submit"
	}
	return t.screen.ButtonText
}

func (t *Terminal) Error(message string) {
	fmt.Fprintln(t.out, t.styles.err.Render(message))
}

func (t *Terminal) Status(message string) {
	fmt.Fprintln(t.out, t.styles.status.Render(message))
}
