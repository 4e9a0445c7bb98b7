package contextx

import (
	"context"
	"fmt"
)

// TaskID identifies a deferred job (asynq task) the current work belongs to.
type TaskID string

type contextKeyTaskID struct{}

func (t TaskID) String() string {
	return string(t)
}

func WithTaskID(ctx context.Context, taskID TaskID) context.Context {
	return context.WithValue(ctx, contextKeyTaskID{}, taskID)
}

func TaskIDFromContext(ctx context.Context) (TaskID, error) {
	taskID, ok := ctx.Value(contextKeyTaskID{}).(TaskID)
	if !ok {
		return "", fmt.Errorf("task id: %w", ErrNoValue)
	}

	return taskID, nil
}
