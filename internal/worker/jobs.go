package worker

import "context"

// JobFunc adapts a named function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(context.Context) error
}

func (j *JobFunc) Name() string { return j.JobName }

func (j *JobFunc) Run(ctx context.Context) error {
	return j.Fn(ctx)
}
