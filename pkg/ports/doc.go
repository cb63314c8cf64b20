/*
Package ports defines the driven ports (interfaces) of the lcm engine.

These interfaces decouple the pipeline core from external implementations,
so the same modes can run against a real platform, a stub, or a test double,
and record their runs in whichever store fits the deployment.

# Key Interfaces

  - Platform: performs the side effects of platform-bound bricks.
  - RunStore: persists the audit record of each run.
  - DistributedLocker: keeps concurrent processes from running the same mode twice.
*/
package ports
