// Package inject executes downloaded snippets with the yaegi interpreter.
// Interpreting instead of compiling means injection works without a Go
// toolchain on the host. Snippets run with full stdlib access; there is no
// sandboxing.
package inject

import (
	"context"
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
)

// entryPoint is the symbol a snippet must define: func Run() error.
const entryPoint = "main.Run"

// Runner evaluates snippet source in a fresh interpreter per call.
type Runner struct {
	log *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner returns a snippet runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run evaluates source and invokes its Run function. The snippet must be a
// main package defining `func Run() error`; a bare function body without a
// package clause is wrapped automatically. The entry point executes on its
// own goroutine so ctx cancellation is honored even if the snippet blocks.
func (r *Runner) Run(ctx context.Context, source string) error {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("loading stdlib symbols: %w", err)
	}
	if _, err := i.Eval(wrap(source)); err != nil {
		return fmt.Errorf("evaluating snippet: %w", err)
	}
	v, err := i.Eval(entryPoint)
	if err != nil {
		return fmt.Errorf("snippet defines no Run function: %w", err)
	}
	run, ok := v.Interface().(func() error)
	if !ok {
		return fmt.Errorf("snippet Run has type %T, expected func() error",
			v.Interface())
	}

	done := make(chan error, 1)
	go func() { done <- run() }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("snippet failed: %w", err)
		}
		r.log.Debug("snippet completed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("snippet execution: %w", ctx.Err())
	}
}

func wrap(source string) string {
	if strings.Contains(source, "package main") {
		return source
	}
	return "package main\n\n" + source
}
