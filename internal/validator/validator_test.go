package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
)

func TestValidateDefinitions(t *testing.T) {
	ctx := context.Background()

	// Scenario A: valid animation and trigger
	loader := memory.NewLoader(map[string]string{
		"fade": `{
			"id": "fade",
			"params": {"time": {"type": "timing", "default": "200ms"}},
			"steps": [{"animate": {"timings": "{{ time }}", "style": {"opacity": 1}}}]
		}`,
		"panel": `{
			"id": "panel",
			"trigger": {
				"states": [{"name": "open", "style": {"height": "100px"}}],
				"transitions": [{"expr": "* => open", "steps": [{"animate": {"timings": "1s"}}]}]
			}
		}`,
	})

	results, err := ValidateDefinitions(ctx, loader, mock.NewDriver())
	if err != nil {
		t.Fatalf("Scenario A (Valid) failed: %v", err)
	}
	if len(results) != 2 || results[0].Kind != domain.KindAnimation || results[1].Kind != domain.KindTrigger {
		t.Errorf("unexpected results: %+v", results)
	}

	// Scenario B: every kind of problem is reported at once
	loaderBroken := memory.NewLoader(map[string]string{
		"negative": `{"id": "negative", "steps": [{"animate": {"timings": "-1s"}}]}`,
		"params":   `{"id": "params", "params": {"c": {"type": "color"}}}`,
		"defaults": `{"id": "defaults", "params": {"t": {"type": "timing", "default": "soon"}}}`,
		"bad-prop": `{"id": "bad-prop", "steps": [{"style": {"colour": "red"}}]}`,
		"expr":     `{"id": "expr", "trigger": {"transitions": [{"expr": "open == closed"}]}}`,
		"dup-a":    `{"id": "dup-a", "trigger": {"name": "menu"}}`,
		"dup-b":    `{"id": "dup-b", "trigger": {"name": "menu"}}`,
	})

	_, err = ValidateDefinitions(ctx, loaderBroken, mock.NewDriver(mock.WithInvalidProperties("colour")))
	if err == nil {
		t.Fatal("Scenario B (Broken) should have failed, but got nil")
	}
	for _, want := range []string{
		"found 8 errors",
		"negative: Duration values below 0 are not allowed",
		`params: param "c": unsupported type: color`,
		`defaults: param "t": "soon" is not a valid timing value`,
		`bad-prop: The provided animation property "colour" is not a supported CSS property`,
		`expr: The provided transition expression "open == closed" is not supported`,
		`dup-a: trigger "menu" is declared by 2 definitions`,
		`dup-b: trigger "menu" is declared by 2 definitions`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in:\n%v", want, err)
		}
	}
}
