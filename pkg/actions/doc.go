// Package actions contains the bricks shipped with lcm and the default mode table.
//
// Introspection bricks (hello_world, print_actions, print_modes, print_types)
// run in-process. Every other brick is bound to a ports.Platform, which
// performs the actual work against the analytics platform; without one they
// fail with domain.ErrNotImplemented.
package actions
