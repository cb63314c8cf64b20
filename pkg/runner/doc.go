/*
Package runner wraps the pipeline engine for one audited run.

The engine itself only executes bricks. The runner adds what an operator
needs around it: a run ID, an external timeout, an optional distributed lock
per mode, and an audit record in a ports.RunStore.

The store is an audit log. Runs are never resumed from it.

# Usage

	r := runner.New(engine,
		runner.WithStore(file.New(file.DefaultPath)),
		runner.WithTimeout(10*time.Minute),
	)

	rec, err := r.Run(ctx, "release", params)
*/
package runner
