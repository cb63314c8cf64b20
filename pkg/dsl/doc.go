/*
Package dsl provides a fluent builder for declaring modes in Go.

Example usage:

	b := dsl.New(dsl.WithBricks(func(name string) (domain.Action, error) {
		return actions.Brick(name, platform)
	}))

	b.Add("hello").
		Describe("Print a greeting").
		Do(actions.HelloWorld())

	b.Add("users").
		Describe("Synchronize users into the domain and projects").
		Bricks("ensure_users_domain", "ensure_users_project")

	reg, err := b.Registry()
*/
package dsl
