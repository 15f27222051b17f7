package plagiarism

import (
	"context"
	"errors"
	"testing"
)

func TestWorkerPoolSubmitCancelledContext(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := pool.Submit(ctx, jobFunc(func(context.Context) error {
		ran = true
		return nil
	}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit with cancelled ctx = %v, want context.Canceled", err)
	}

	done := make(chan struct{})
	if err := pool.Submit(context.Background(), jobFunc(func(context.Context) error {
		close(done)
		return nil
	})); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-done
	if ran {
		t.Fatal("job submitted with a cancelled context was executed")
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)
	pool.Close()

	if err := pool.Submit(context.Background(), jobFunc(func(context.Context) error { return nil })); err == nil {
		t.Fatal("Submit on a closed pool should fail")
	}
}
