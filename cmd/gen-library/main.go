package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/cadence/pkg/adapters/file"
	"github.com/aretw0/cadence/pkg/adapters/redis"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// gen-library writes a starter set of definitions. With CADENCE_REDIS_ADDR
// set they are published to that Redis store as well.
func main() {
	targetDir := "examples/library"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	fmt.Printf("Generating definition library in: %s\n", targetDir)
	stores := []ports.DefinitionStore{file.New(targetDir)}
	if addr := os.Getenv("CADENCE_REDIS_ADDR"); addr != "" {
		rs := redis.New(addr, os.Getenv("CADENCE_REDIS_PASSWORD"), 0)
		defer rs.Close()
		stores = append(stores, rs)
		fmt.Printf("Publishing to Redis at: %s\n", addr)
	}

	ctx := context.TODO()
	for _, def := range library() {
		for _, store := range stores {
			check(store.Save(ctx, def))
		}
		fmt.Printf("  %s (%s)\n", def.ID, def.EffectiveKind())
	}
	fmt.Println("Done.")
}

func library() []*domain.Definition {
	return []*domain.Definition{
		{
			ID:          "fade-in",
			Description: "Fades an element in.",
			Params: map[string]domain.ParamSpec{
				"time": {Type: "timing", Default: "300ms ease-out"},
			},
			Steps: []domain.Step{
				{Style: map[string]any{"opacity": 0}},
				{Animate: &domain.AnimateSpec{Timings: "{{ time }}", Style: map[string]any{"opacity": 1}}},
			},
		},
		{
			ID:          "slide-in",
			Description: "Slides an element in from the left, then fades it in.",
			Params: map[string]domain.ParamSpec{
				"distance": {Type: "style", Default: "-100%"},
			},
			Steps: []domain.Step{
				{Style: map[string]any{"transform": "translateX({{ distance }})", "opacity": 0}},
				{Sequence: []domain.Step{
					{Animate: &domain.AnimateSpec{Timings: "250ms", Style: map[string]any{"transform": "translateX(0)"}}},
					{Animate: &domain.AnimateSpec{Timings: "150ms", Style: map[string]any{"opacity": 1}}},
				}},
			},
		},
		{
			ID:          "list-enter",
			Description: "Staggers the items of a list in.",
			Steps: []domain.Step{
				{Query: &domain.QuerySpec{
					Selector: "li",
					Optional: true,
					Steps: []domain.Step{
						{Style: map[string]any{"opacity": 0}},
						{Stagger: &domain.StaggerSpec{
							Timings: "60ms",
							Steps: []domain.Step{
								{Animate: &domain.AnimateSpec{Timings: "200ms", Style: map[string]any{"opacity": 1}}},
							},
						}},
					},
				}},
			},
		},
		{
			ID:          "panel",
			Description: "Expands and collapses a panel.",
			Trigger: &domain.TriggerSpec{
				Name: "panel",
				States: []domain.StateSpec{
					{Name: "closed", Style: map[string]any{"height": "0px", "overflow": "hidden"}},
					{Name: "open", Style: map[string]any{"height": "*"}},
				},
				Transitions: []domain.TransitionSpec{
					{Expr: "closed <=> open", Steps: []domain.Step{{Animate: &domain.AnimateSpec{Timings: "200ms ease-in-out"}}}},
					{Expr: "void => *", Steps: []domain.Step{
						{Style: map[string]any{"opacity": 0}},
						{Animate: &domain.AnimateSpec{Timings: "150ms", Style: map[string]any{"opacity": 1}}},
					}},
				},
			},
		},
	}
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
