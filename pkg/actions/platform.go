package actions

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
	"github.com/aretw0/lcm/pkg/schema"
)

// PlatformAction is a brick whose work is performed by a ports.Platform.
type PlatformAction struct {
	name     string
	desc     string
	specs    []domain.ParamSpec
	platform ports.Platform
}

// NewPlatformAction binds the named brick to platform. A nil platform yields a
// brick that fails with domain.ErrNotImplemented when called.
func NewPlatformAction(name, description string, platform ports.Platform, specs ...domain.ParamSpec) *PlatformAction {
	return &PlatformAction{name: name, desc: description, specs: specs, platform: platform}
}

func (a *PlatformAction) Name() string               { return a.name }
func (a *PlatformAction) Description() string        { return a.desc }
func (a *PlatformAction) Params() []domain.ParamSpec { return a.specs }

// Call hands the context to the platform and classifies its reply.
func (a *PlatformAction) Call(ctx context.Context, params domain.Params) (domain.Outcome, error) {
	if a.platform == nil {
		return domain.Outcome{}, fmt.Errorf("%s: %w", a.name, domain.ErrNotImplemented)
	}
	raw, err := a.platform.Invoke(ctx, a.name, params)
	if err != nil {
		return domain.Outcome{}, err
	}
	out, err := domain.OutcomeFrom(raw)
	if err != nil {
		var mErr *domain.MalformedOutcomeError
		if errors.As(err, &mErr) {
			mErr.Action = a.name
		}
		return domain.Outcome{}, err
	}
	return out, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// identifier accepts names usable as a table or column in the platform's
// warehouse.
var identifier = schema.Custom("identifier", func(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected identifier, got %T", value)
	}
	if !identifierPattern.MatchString(s) {
		return fmt.Errorf("'%s' is not a valid identifier", s)
	}
	return nil
})

// bricks describes every platform-bound brick, keyed by short name.
var bricks = map[string]struct {
	desc  string
	specs []domain.ParamSpec
}{
	"collect_segments": {
		desc: "Collect segments from the organization",
		specs: []domain.ParamSpec{
			{Name: "organization", Type: schema.String(), Required: true, Description: "Organization (domain) owning the segments"},
			{Name: "segments_filter", Type: schema.Array(schema.String()), Description: "Only process these segment IDs"},
		},
	},
	"create_segment_masters": {
		desc: "Create master projects for segments",
		specs: []domain.ParamSpec{
			{Name: "segments", Type: schema.Array(schema.Hash()), Description: "Segments collected by collect_segments"},
		},
	},
	"ensure_users": {desc: "Ensure users exist in the domain and projects"},
	"synchronize_ldm": {
		desc: "Synchronize the logical data model from masters",
	},
	"synchronize_label_types": {desc: "Synchronize label types from masters"},
	"synchronize_meta": {
		desc: "Synchronize dashboards, reports and other metadata",
		specs: []domain.ParamSpec{
			{Name: "production_tag", Type: schema.String(), Description: "Only objects carrying this tag are synchronized"},
		},
	},
	"synchronize_processes":    {desc: "Synchronize ETL processes"},
	"synchronize_schedules":    {desc: "Synchronize process schedules"},
	"synchronize_new_segments": {desc: "Synchronize newly created segment masters"},
	"update_release_table": {
		desc: "Record the new master versions in the release table",
		specs: []domain.ParamSpec{
			{Name: "release_table_name", Type: identifier, Default: "LCM_RELEASE", Description: "Name of the release table"},
		},
	},
	"purge_clients": {
		desc: "Purge clients whose workspace no longer exists",
	},
	"collect_clients": {
		desc: "Collect clients from the input source",
		specs: []domain.ParamSpec{
			{Name: "input_source", Type: schema.Hash(), Description: "Where the client list is read from"},
			{Name: "client_id_column", Type: identifier, Default: "client_id", Description: "Column holding the client ID"},
		},
	},
	"associate_clients": {
		desc: "Associate clients with their segments",
		specs: []domain.ParamSpec{
			{Name: "delete_extra", Type: schema.Boolean(), Default: false, Description: "Remove clients missing from the input"},
		},
	},
	"provision_clients":   {desc: "Provision workspaces for new clients"},
	"ensure_titles":       {desc: "Ensure client workspace titles"},
	"synchronize_clients": {desc: "Roll out the latest master release to clients"},
	"ensure_users_domain": {desc: "Ensure users exist in the domain"},
	"ensure_users_project": {
		desc: "Ensure users are members of their projects",
	},
}

// Brick returns the named platform brick bound to platform.
func Brick(name string, platform ports.Platform) (*PlatformAction, error) {
	b, ok := bricks[name]
	if !ok {
		return nil, fmt.Errorf("unknown brick '%s'", name)
	}
	return NewPlatformAction(name, b.desc, platform, b.specs...), nil
}
