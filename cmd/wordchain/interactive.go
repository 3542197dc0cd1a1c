package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CTAG07/wordchain/pkg/markov"
)

// inputLine is one line read from the user, or the error that ended input.
type inputLine struct {
	text string
	err  error
}

// readLines feeds lines from in to the returned channel until input ends or
// ctx is done. The channel is closed when the reader goroutine exits.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			text, err := reader.ReadString('\n')
			select {
			case lines <- inputLine{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// interact prints a generated sentence, waits for a line of input and repeats
// until the exit command is entered, input ends, or ctx is cancelled.
// Cancellation is a normal way to leave the loop and is not reported as an error.
func (a *app) interact(ctx context.Context, model *markov.WordModel, in io.Reader, opts ...markov.GenerateOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, in)
	fmt.Fprintf(a.stdout, "Type %s to exit the program\n", a.config.ExitCommand)

	for {
		sentence, err := model.Generate(ctx, opts...)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, markov.ErrEmptyModel) {
				return fmt.Errorf("no sentence can be generated, the text has no sentence starts: %w", err)
			}
			return err
		}
		fmt.Fprintln(a.stdout, a.config.PromptMessage)
		fmt.Fprintln(a.stdout, sentence)

		select {
		case <-ctx.Done():
			a.logger.Debug("Interactive session cancelled")
			return nil
		case input, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(input.text) == a.config.ExitCommand {
				return nil
			}
			if input.err != nil {
				if errors.Is(input.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("failed to read input: %w", input.err)
			}
		}
	}
}
