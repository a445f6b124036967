package anticaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// CreateTask submits a task and returns the taskId assigned by the service.
// The task is validated before anything is sent.
func (c *Client) CreateTask(ctx context.Context, task Task, opts ...Option) (int, error) {
	if task == nil {
		return 0, fmt.Errorf("%w: nil task", ErrInvalidTask)
	}
	if err := task.validate(); err != nil {
		return 0, err
	}
	payload, err := encodeTask(task)
	if err != nil {
		return 0, err
	}

	o := c.options(opts)
	params := map[string]any{
		"task":         payload,
		"languagePool": o.languagePool,
	}

	var taskID int
	err = c.call(ctx, methodCreateTask, params, func(data []byte) (err error) {
		taskID, err = parseCreateTask(data)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("createTask %s: %w", task.Type(), err)
	}

	c.logLifecycle("anticaptcha: task created", slog.Int("taskId", taskID), slog.String("type", string(task.Type())))
	return taskID, nil
}

// GetTaskResult polls for the result of taskID until it is ready.
//
// Each query is preceded by the retry interval and awaited before the next is
// scheduled, so at most one query per call is in flight. A vendor error,
// transport failure or malformed response ends polling at once. After
// maxRetries+1 queries that all report processing, ErrTimeout is returned.
// Cancelling ctx aborts the wait or the in-flight query.
func (c *Client) GetTaskResult(ctx context.Context, taskID int, opts ...Option) (*TaskResult[json.RawMessage], error) {
	o := c.options(opts)
	res, attempts, err := c.poll(ctx, taskID, o)

	outcome := "ready"
	switch {
	case errors.Is(err, ErrTimeout):
		outcome = "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
	case err != nil:
		outcome = "error"
	}
	c.recordPoll(attempts, outcome)

	return res, err
}

// poll runs the query loop and reports how many queries it issued.
func (c *Client) poll(ctx context.Context, taskID int, o callOptions) (*TaskResult[json.RawMessage], int, error) {
	for attempts := 0; ; attempts++ {
		if attempts > o.maxRetries {
			c.logLifecycle("anticaptcha: task result retries exhausted", slog.Int("taskId", taskID), slog.Int("maxRetries", o.maxRetries))
			return nil, attempts, fmt.Errorf("%w: task %d still processing after %d queries", ErrTimeout, taskID, attempts)
		}

		if err := sleep(ctx, o.interval); err != nil {
			return nil, attempts, err
		}

		c.logLifecycle("anticaptcha: querying task result", slog.Int("taskId", taskID), slog.Int("attempt", attempts+1))
		res, err := c.queryResult(ctx, taskID)
		if err != nil {
			return nil, attempts + 1, err
		}
		if res.Status == StatusReady {
			c.logLifecycle("anticaptcha: task solved", slog.Int("taskId", taskID), slog.Float64("cost", res.Cost))
			return res, attempts + 1, nil
		}
	}
}

// queryResult issues exactly one getTaskResult request.
func (c *Client) queryResult(ctx context.Context, taskID int) (*TaskResult[json.RawMessage], error) {
	var res *TaskResult[json.RawMessage]
	err := c.call(ctx, methodGetTaskResult, map[string]any{"taskId": taskID}, func(data []byte) (err error) {
		res, err = parseTaskResult(taskID, data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getTaskResult %d: %w", taskID, err)
	}
	return res, nil
}

// ResultOf polls like GetTaskResult and decodes the solution into S.
func ResultOf[S any](ctx context.Context, c *Client, taskID int, opts ...Option) (*TaskResult[S], error) {
	raw, err := c.GetTaskResult(ctx, taskID, opts...)
	if err != nil {
		return nil, err
	}
	return decodeSolution[S](raw)
}

// Solve creates task and polls until its result is ready. The solution type
// follows from the task kind:
//
//	res, err := anticaptcha.Solve(ctx, c, anticaptcha.NewImageToTextTask(img))
//	// res.Solution is an ImageToTextSolution
func Solve[S any](ctx context.Context, c *Client, task SolvingTask[S], opts ...Option) (*TaskResult[S], error) {
	taskID, err := c.CreateTask(ctx, task, opts...)
	if err != nil {
		return nil, err
	}
	return ResultOf[S](ctx, c, taskID, opts...)
}
