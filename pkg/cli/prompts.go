package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// ErrAborted is returned by a Prompter when the user chooses to exit the
// tool from an interrupt, or when stdin is closed. Any plan files already
// written stay on disk.
var ErrAborted = errors.New("aborted by user")

// Prompter collects interactive input. Line re-prompts until it gets a
// non-empty answer; Confirm requires an explicit yes or no.
type Prompter interface {
	Line(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
}

// TerminalPrompter reads from stdin on a dedicated goroutine so that an
// interrupt signal arriving mid-prompt can be handled as a question
// (exit or resume) instead of killing the process with input half-typed.
type TerminalPrompter struct {
	lines   chan string
	readErr chan error
	sigChan chan os.Signal
	out     io.Writer
}

var _ Prompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter constructs a TerminalPrompter over stdin/stdout and
// installs its signal handler.
func NewTerminalPrompter() *TerminalPrompter {
	prompter := &TerminalPrompter{
		lines:   make(chan string),
		readErr: make(chan error, 1),
		sigChan: make(chan os.Signal, 1),
		out:     os.Stdout,
	}

	signal.Notify(prompter.sigChan, os.Interrupt, syscall.SIGTERM)
	go prompter.readLoop(os.Stdin)

	return prompter
}

func (p *TerminalPrompter) readLoop(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}

	if err := scanner.Err(); err != nil {
		p.readErr <- err
	} else {
		p.readErr <- io.EOF
	}
}

// Line prompts until a non-empty line is entered. An interrupt during the
// prompt offers the choice to exit (ErrAborted) or resume.
func (p *TerminalPrompter) Line(prompt string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s:\n> ", prompt)

		select {
		case line := <-p.lines:
			line = strings.TrimSpace(line)
			if line == "" {
				log.Warn("Input cannot be empty. Please provide a valid value.")
				continue
			}
			log.Debugf("User input for %q: %s", prompt, line)
			return line, nil
		case err := <-p.readErr:
			log.Debugf("Input stream closed: %v", err)
			return "", ErrAborted
		case <-p.sigChan:
			if p.confirmExit() {
				return "", ErrAborted
			}
			fmt.Fprintln(p.out, "Continuing...")
		}
	}
}

// Confirm prompts until the user answers yes or no.
func (p *TerminalPrompter) Confirm(prompt string) (bool, error) {
	for {
		line, err := p.Line(fmt.Sprintf("%s [y/n]", prompt))
		if err != nil {
			return false, err
		}

		switch {
		case strings.HasPrefix(strings.ToLower(line), "y"):
			return true, nil
		case strings.HasPrefix(strings.ToLower(line), "n"):
			return false, nil
		default:
			log.Warn("Invalid input. Please enter 'y' for Yes or 'n' for No.")
		}
	}
}

func (p *TerminalPrompter) confirmExit() bool {
	fmt.Fprintf(
		p.out,
		"\nExit request detected. (E)xit the tool or (C)ontinue with the current prompt? [C]: ",
	)

	select {
	case line := <-p.lines:
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "e")
	case <-p.readErr:
		return true
	case <-p.sigChan:
		// A second interrupt means exit.
		return true
	}
}
