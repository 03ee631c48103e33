package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/echomind/echomind/internal/widget"
)

// RunPlain drives the widget line by line, for pipes and dumb terminals.
// Each input line is one submit; "/quit", EOF or ctx cancellation ends the session.
func RunPlain(ctx context.Context, w *widget.Widget, in io.Reader, out io.Writer) error {
	defer w.Close()

	fmt.Fprint(out, widget.RenderText(w.Transcript()))

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines, readErr := scanLines(scanCtx, in)
	for {
		fmt.Fprint(out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case next, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return errors.Wrap(err, "read input")
				}
				fmt.Fprintln(out)
				return nil
			}
			line = next
		}

		if strings.TrimSpace(line) == "/quit" {
			fmt.Fprintln(out)
			return nil
		}

		seen := len(w.Messages())
		w.SetDraft(line)
		done, ok := w.Submit(ctx)
		if !ok {
			continue
		}

		select {
		case <-done:
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		}

		// Skip the echoed user line; the terminal already shows it.
		msgs := w.Messages()
		if len(msgs) > seen+1 {
			fmt.Fprint(out, widget.RenderText(widget.TranscriptOf(msgs[seen+1:])))
		}
	}
}

// scanLines reads in on its own goroutine so a blocked read never delays shutdown.
func scanLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errCh <- nil
				return
			}
		}
		errCh <- scanner.Err()
	}()

	return lines, errCh
}
