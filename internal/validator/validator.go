package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/dsl"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// maxParallel bounds how many definitions are loaded and compiled at once.
const maxParallel = 8

// Result is the outcome of validating one definition.
type Result struct {
	ID     string
	Kind   domain.DefinitionKind
	Errors []string
}

// ValidateDefinitions loads every definition listed by loader and compiles
// it against validator, in parallel. It returns one Result per id, sorted,
// and an error listing every problem found.
func ValidateDefinitions(ctx context.Context, loader ports.DefinitionLoader, validator compiler.PropertyValidator) ([]Result, error) {
	ids, err := loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}

	results := make([]Result, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = validateOne(ctx, loader, validator, id)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	checkTriggerNames(ctx, loader, results)
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	var errors []string
	for _, r := range results {
		for _, msg := range r.Errors {
			errors = append(errors, fmt.Sprintf("%s: %s", r.ID, msg))
		}
	}
	if len(errors) > 0 {
		return results, fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return results, nil
}

func validateOne(ctx context.Context, loader ports.DefinitionLoader, validator compiler.PropertyValidator, id string) Result {
	r := Result{ID: id}
	def, err := loader.Load(ctx, id)
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return r
	}
	r.Kind = def.EffectiveKind()

	s, err := schema.FromParams(def.Params)
	if err != nil {
		for _, e := range schema.ValidationErrors(err) {
			r.Errors = append(r.Errors, e.Error())
		}
	} else {
		defaults := def.Defaults()
		names := make([]string, 0, len(defaults))
		for name := range defaults {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, e := range schema.ValidationErrors(schema.ValidateFields(s, defaults, names...)) {
			r.Errors = append(r.Errors, e.Error())
		}
	}

	var errors []string
	if r.Kind == domain.KindTrigger {
		metadata, err := dsl.TriggerFromDefinition(def)
		if err != nil {
			r.Errors = append(r.Errors, err.Error())
			return r
		}
		compiler.BuildTriggerAst(validator, metadata, &errors)
	} else {
		metadata, err := dsl.FromDefinition(def)
		if err != nil {
			r.Errors = append(r.Errors, err.Error())
			return r
		}
		compiler.BuildAnimationAst(validator, metadata, &errors)
	}
	r.Errors = append(r.Errors, errors...)
	return r
}

// checkTriggerNames reports triggers declared by more than one definition;
// the last one registered would silently win.
func checkTriggerNames(ctx context.Context, loader ports.DefinitionLoader, results []Result) {
	owners := make(map[string][]int)
	for i, r := range results {
		if r.Kind != domain.KindTrigger {
			continue
		}
		def, err := loader.Load(ctx, r.ID)
		if err != nil || def.Trigger == nil {
			continue
		}
		name := def.Trigger.Name
		if name == "" {
			name = def.ID
		}
		owners[name] = append(owners[name], i)
	}
	for name, idx := range owners {
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			results[i].Errors = append(results[i].Errors, fmt.Sprintf("trigger %q is declared by %d definitions", name, len(idx)))
		}
	}
}
