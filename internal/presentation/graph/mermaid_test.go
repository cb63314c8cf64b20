package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/lcm/internal/dto"
	"github.com/aretw0/lcm/internal/presentation/graph"
	"github.com/aretw0/lcm/pkg/domain"
)

var release = dto.ModeInfo{
	Name: "release",
	Actions: []dto.ActionInfo{
		{Name: "collect_segments", Params: []dto.ParamInfo{{Name: "organization", Type: "string", Required: true}}},
		{Name: "create_segment_masters"},
		{Name: "update_release_table"},
	},
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(release, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `release(("release"))`)
	assert.Contains(t, out, `s0_collect_segments[["collect_segments <br/> organization*: string"]]`)
	assert.Contains(t, out, "release --> s0_collect_segments")
	assert.Contains(t, out, "s0_collect_segments --> s1_create_segment_masters")
	assert.Contains(t, out, "s1_create_segment_masters --> s2_update_release_table")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	rec := &domain.RunRecord{
		Status: domain.RunStatusFailed,
		Steps:  []domain.StepRecord{{Index: 0, Action: "collect_segments"}},
	}

	out := graph.GenerateMermaid(release, graph.OverlayFromRun(rec))

	assert.Contains(t, out, "class s0_collect_segments done;")
	assert.Contains(t, out, "class s1_create_segment_masters failed;")
	assert.NotContains(t, out, "class s2_update_release_table")
}

func TestGenerateMermaid_SanitizesIDs(t *testing.T) {
	out := graph.GenerateMermaid(dto.ModeInfo{Name: "my-mode", Actions: []dto.ActionInfo{{Name: "a.b"}}}, nil)
	assert.Contains(t, out, `my_mode(("my-mode"))`)
	assert.Contains(t, out, `s0_a_b[["a.b"]]`)
}
