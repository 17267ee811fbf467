package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

// Runner renders a quiz to a terminal and forwards typed commands to the
// controller. It holds no quiz logic of its own.
type Runner struct {
	ctrl   *app.Controller
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger

	lines    chan lineResult
	done     chan struct{}
	readOnce sync.Once
	stopOnce sync.Once
}

type lineResult struct {
	line string
	err  error
}

func NewRunner(ctrl *app.Controller, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		ctrl:   ctrl,
		in:     bufio.NewReader(in),
		out:    out,
		logger: log.Default(),
		lines:  make(chan lineResult),
		done:   make(chan struct{}),
	}
}

// Run starts a session and loops until the user quits, input ends or ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer r.stop()
	r.ctrl.Initialize(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := r.ctrl.View()
		if v.Phase == domain.PhaseLoading {
			fmt.Fprintln(r.out, "Loading questions...")
			var err error
			if v, err = r.ctrl.Await(ctx); err != nil {
				return err
			}
		}

		var quit bool
		var err error
		switch v.Phase {
		case domain.PhaseAnswering:
			quit, err = r.answer(ctx, v)
		case domain.PhaseComplete:
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, "Quiz Completed!")
			fmt.Fprintf(r.out, "Your score: %d / %d\n", v.Score, v.Total)
			quit, err = r.offerRestart(ctx)
		case domain.PhaseFailed:
			fmt.Fprintln(r.out)
			fmt.Fprintf(r.out, "Could not load questions: %s\n", v.Error)
			quit, err = r.offerRestart(ctx)
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (r *Runner) answer(ctx context.Context, v domain.View) (bool, error) {
	r.renderQuestion(v)
	fmt.Fprintf(r.out, "Choose 1-%d, press Enter for %q, or q to quit: ", len(v.Choices), v.AdvanceLabel)

	line, err := r.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	switch line {
	case "q", "quit":
		return true, nil
	case "", "n", "next":
		if _, err := r.ctrl.Advance(); errors.Is(err, domain.ErrNoSelection) {
			fmt.Fprintln(r.out, "Please select an answer!")
		}
		return false, nil
	}

	n, convErr := strconv.Atoi(line)
	if convErr != nil || n < 1 || n > len(v.Choices) {
		fmt.Fprintf(r.out, "Invalid input. Enter a number between 1 and %d.\n", len(v.Choices))
		return false, nil
	}
	if _, err := r.ctrl.SelectAnswer(v.Choices[n-1]); err != nil {
		r.logger.Printf("select answer %q: %v", v.Choices[n-1], err)
	}
	return false, nil
}

func (r *Runner) renderQuestion(v domain.View) {
	fmt.Fprintln(r.out)
	header := fmt.Sprintf("Question %d of %d", v.Index, v.Total)
	if tags := joinNonEmpty(v.Category, v.Difficulty); tags != "" {
		header += " (" + tags + ")"
	}
	fmt.Fprintln(r.out, header)
	fmt.Fprintln(r.out, v.Question)
	for i, choice := range v.Choices {
		marker := " "
		if choice == v.Selected && v.Selected != "" {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %d) %s\n", marker, i+1, choice)
	}
}

func (r *Runner) offerRestart(ctx context.Context) (bool, error) {
	for {
		fmt.Fprint(r.out, "Press r to restart or q to quit: ")
		line, err := r.readLine(ctx)
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		switch line {
		case "r", "restart":
			r.ctrl.Restart(ctx)
			return false, nil
		case "q", "quit":
			return true, nil
		}
	}
}

// readLine returns the trimmed, lower-cased line; io.EOF only once input is
// exhausted. A cancelled ctx unblocks it even while the reader waits on input.
func (r *Runner) readLine(ctx context.Context) (string, error) {
	r.readOnce.Do(func() { go r.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// readLines pumps input lines to readLine until input fails or the runner stops.
func (r *Runner) readLines() {
	defer close(r.lines)
	for {
		line, err := r.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			select {
			case r.lines <- lineResult{err: err}:
			case <-r.done:
			}
			return
		}
		select {
		case r.lines <- lineResult{line: strings.ToLower(strings.TrimSpace(line))}:
		case <-r.done:
			return
		}
	}
}

func (r *Runner) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
