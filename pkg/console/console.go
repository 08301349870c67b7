// Package console reads operator commands from a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	Prompt      = "Type stop to shutdown the server: "
	StopCommand = "stop"
)

// Run prompts on out and reads commands from in. It returns nil once "stop" is
// entered, io.EOF when in is exhausted and ctx.Err() when ctx is done first.
// Any other command is logged and the prompt is shown again.
func Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	done := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			done <- err
			return
		}
		done <- io.EOF
	}()

	for {
		fmt.Fprint(out, Prompt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		case line := <-lines:
			command := strings.TrimSpace(line)
			if command == StopCommand {
				return nil
			}
			slog.Warn(fmt.Sprintf("Invalid command: %s", command), "command", command)
		}
	}
}
