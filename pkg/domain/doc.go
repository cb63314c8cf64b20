/*
Package domain contains the core models of the lcm pipeline engine.

It defines the parameter context threaded through a run, the brick (Action)
contract, modes, outcomes and result records. The package is kept free of I/O
and persistence so every adapter can depend on it.

# Key Entities

  - Params: the case-insensitive, normalized parameter context.
  - Action: a stateless brick with a short name, description and Call entry point.
  - Mode: a named, ordered pipeline of bricks.
  - Outcome: the discriminated result of a brick (records, or records + delta).
  - Record: one ordered row of reportable brick output.
  - RunRecord: the audit entry persisted by the runner.
*/
package domain
