/*
Package lcm runs lifecycle-management pipelines against an analytics platform.

A pipeline is a mode: a named, ordered list of bricks. Every brick receives
the shared parameter context, may report result records, and may hand back a
delta that is merged into the context before the next brick runs. The first
failing brick aborts the run.

# Usage

	eng, err := lcm.New(
		lcm.WithPlatform(process.New(process.WithBricks(bricks))),
		lcm.WithReporter(report.NewTable(os.Stdout)),
	)
	if err != nil {
		log.Fatal(err)
	}

	results, err := eng.Perform(ctx, "release", map[string]any{
		"organization": "acme",
	})

Parameter keys are case-insensitive at every depth. The built-in modes are
listed by running the "modes" mode itself.

# Harness

Run wraps Perform with a run ID, an optional timeout and distributed lock, and
an audit record written to a ports.RunStore (memory, file or redis adapters).
*/
package lcm
