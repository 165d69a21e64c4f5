package inject_test

import (
	"context"
	"testing"
	"time"

	"github.com/tordmark/snipjet/inject"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	r := inject.NewRunner()
	err := r.Run(context.Background(), `package main

func Run() error { return nil }
`)
	require.NoError(t, err)
}

func TestRunWrapsBareSource(t *testing.T) {
	r := inject.NewRunner()
	err := r.Run(context.Background(), `func Run() error { return nil }`)
	require.NoError(t, err)
}

func TestRunSnippetError(t *testing.T) {
	r := inject.NewRunner()
	err := r.Run(context.Background(), `package main

import "errors"

func Run() error { return errors.New("boom") }
`)
	require.ErrorContains(t, err, "snippet failed")
	require.ErrorContains(t, err, "boom")
}

func TestRunInvalidSource(t *testing.T) {
	r := inject.NewRunner()
	err := r.Run(context.Background(), `package main

func Run() error {`)
	require.ErrorContains(t, err, "evaluating snippet")
}

func TestRunMissingEntryPoint(t *testing.T) {
	r := inject.NewRunner()
	err := r.Run(context.Background(), `package main

func NotRun() error { return nil }
`)
	require.ErrorContains(t, err, "no Run function")
}

func TestRunWrongSignature(t *testing.T) {
	r := inject.NewRunner()
	err := r.Run(context.Background(), `package main

func Run() int { return 0 }
`)
	require.ErrorContains(t, err, "expected func() error")
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	r := inject.NewRunner()
	err := r.Run(ctx, `package main

import "time"

func Run() error {
	time.Sleep(10 * time.Second)
	return nil
}
`)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
