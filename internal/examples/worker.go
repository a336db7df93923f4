package examples

import (
	"bufio"
	"context"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

const maxLineSize = 1024 * 1024

type workerEvent struct {
	worker int
	event  Event
}

// worker is one external execution process.
type worker struct {
	id     int
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
	done   chan struct{}
	err    error
	log    *logrus.Entry
}

// startWorker launches command with one "name:script:image" argument per work item.
func startWorker(ctx context.Context, id int, command []string, work []domain.WorkItem, log *logrus.Logger) (*worker, error) {
	args := append([]string{}, command[1:]...)
	for _, w := range work {
		args = append(args, Triple(w))
	}

	cmd := exec.CommandContext(ctx, command[0], args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &worker{
		id:     id,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		done:   make(chan struct{}),
		log:    log.WithField("worker", id),
	}, nil
}

// pump forwards stdout lines as events until the process closes its output,
// then reaps it. Every event is delivered before done is closed.
func (w *worker) pump(events chan<- workerEvent) {
	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		sc := bufio.NewScanner(w.stderr)
		sc.Buffer(make([]byte, 64*1024), maxLineSize)
		for sc.Scan() {
			w.log.Debug(sc.Text())
		}
		_, _ = io.Copy(io.Discard, w.stderr)
	}()

	sc := bufio.NewScanner(w.stdout)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		events <- workerEvent{worker: w.id, event: ParseLine(sc.Text())}
	}
	if err := sc.Err(); err != nil {
		w.log.WithError(err).Warn("stopped reading worker output")
		_, _ = io.Copy(io.Discard, w.stdout)
	}

	<-stderrDone
	w.err = w.cmd.Wait()
	close(w.done)
}

// poll reports whether the process has exited, without blocking.
func (w *worker) poll() (bool, error) {
	select {
	case <-w.done:
		return true, w.err
	default:
		return false, nil
	}
}
