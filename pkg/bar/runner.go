package bar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Poller is polled for the label on every tick and signals label changes
// between ticks.
type Poller interface {
	Poll(ctx context.Context) string
	Changed() <-chan struct{}
}

// Runner drives one segment: it renders on every interval tick and
// whenever the poller reports a change. Poll calls never overlap.
type Runner struct {
	poller   Poller
	segment  *Segment
	writer   Writer
	interval time.Duration
	log      *zap.SugaredLogger

	last    Block
	written bool
}

func NewRunner(poller Poller, segment *Segment, writer Writer, interval time.Duration, log *zap.SugaredLogger) *Runner {
	return &Runner{
		poller:   poller,
		segment:  segment,
		writer:   writer,
		interval: interval,
		log:      log,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	if err := r.writer.Start(); err != nil {
		return fmt.Errorf("start output: %w", err)
	}

	if err := r.render(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-r.poller.Changed():
		}

		if err := r.render(ctx); err != nil {
			return err
		}
	}
}

func (r *Runner) render(ctx context.Context) error {
	block := r.segment.Block(r.poller.Poll(ctx))
	if r.written && block == r.last {
		return nil
	}

	if err := r.writer.Write(block); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	r.log.Debugw("rendered", "label", block.FullText, "colour", block.Color)
	r.last = block
	r.written = true
	return nil
}
