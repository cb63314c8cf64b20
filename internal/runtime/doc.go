// Package runtime contains the pipeline executor.
//
// The Engine resolves a mode, prints its plan, runs each brick strictly in
// order against a shared parameter context, reports every outcome as it
// arrives and prints a summary for multi-brick runs. The first failing brick
// aborts the run; nothing is rolled back or retried.
package runtime
