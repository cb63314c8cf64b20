package actions

import (
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/dsl"
	"github.com/aretw0/lcm/pkg/ports"
	"github.com/aretw0/lcm/pkg/registry"
)

// DefaultModes returns the built-in mode table. Platform bricks are bound to
// platform, which may be nil.
func DefaultModes(platform ports.Platform) []domain.Mode {
	b := dsl.New(dsl.WithBricks(func(name string) (domain.Action, error) {
		return Brick(name, platform)
	}))

	printActions := PrintActions()
	printModes := PrintModes()
	printTypes := PrintTypes()

	b.Add("actions").Describe("List available actions").Do(printActions)
	b.Add("hello").Describe("Print a greeting").Do(HelloWorld())
	b.Add("modes").Describe("List available modes").Do(printModes)
	b.Add("info").Describe("Print types, actions and modes").Do(printTypes, printActions, printModes)
	b.Add("types").Describe("List parameter types").Do(printTypes)

	b.Add("release").
		Describe("Release new versions of segment masters").
		Bricks(
			"collect_segments",
			"create_segment_masters",
			"ensure_users",
			"synchronize_ldm",
			"synchronize_label_types",
			"synchronize_meta",
			"synchronize_processes",
			"synchronize_schedules",
			"synchronize_new_segments",
			"update_release_table",
		)

	b.Add("provision").
		Describe("Provision client workspaces from segment masters").
		Bricks(
			"collect_segments",
			"purge_clients",
			"collect_clients",
			"associate_clients",
			"provision_clients",
			"ensure_users",
			"ensure_titles",
			"synchronize_label_types",
			"synchronize_processes",
			"synchronize_schedules",
		)

	b.Add("rollout").
		Describe("Roll out the latest release to client workspaces").
		Bricks(
			"collect_segments",
			"collect_clients",
			"ensure_users",
			"synchronize_ldm",
			"synchronize_label_types",
			"synchronize_processes",
			"synchronize_schedules",
			"synchronize_clients",
		)

	b.Add("users").
		Describe("Synchronize users into the domain and projects").
		Bricks("ensure_users_domain", "ensure_users_project")

	return b.MustBuild()
}

// DefaultRegistry builds a registry holding DefaultModes.
func DefaultRegistry(platform ports.Platform) *registry.Registry {
	return registry.MustNew(DefaultModes(platform)...)
}
