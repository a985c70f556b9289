package task

import "context"

// Task is a unit of background work.
type Task interface {
	// Name identifies the task kind in logs.
	Name() string

	// Execute runs the task logic.
	Execute(ctx context.Context) error
}

type funcTask struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFunc wraps fn as a Task.
func NewFunc(name string, fn func(ctx context.Context) error) Task {
	return &funcTask{name: name, fn: fn}
}

func (t *funcTask) Name() string { return t.name }

func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }
