package runtime_test

import (
	"testing"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/require"
)

func style(props map[string]any) *domain.StyleMetadata {
	return &domain.StyleMetadata{Styles: []domain.StyleEntry{{Props: props}}}
}

func animate(timings any, styles domain.Metadata) *domain.AnimateMetadata {
	return &domain.AnimateMetadata{Timings: timings, Styles: styles}
}

func sequence(steps ...domain.Metadata) *domain.SequenceMetadata {
	return &domain.SequenceMetadata{Steps: steps}
}

func compile(t *testing.T, m domain.Metadata) compiler.Ast {
	t.Helper()
	var errs []string
	ast := compiler.BuildAnimationAst(mock.NewDriver(), m, &errs)
	require.Empty(t, errs)
	return ast
}

func openCloseTrigger() *domain.TriggerMetadata {
	return &domain.TriggerMetadata{
		Name: "openClose",
		Definitions: []domain.Metadata{
			&domain.StateMetadata{Name: "open", Styles: style(map[string]any{"height": "100px"})},
			&domain.StateMetadata{Name: "closed", Styles: style(map[string]any{"height": "0px"})},
			&domain.TransitionMetadata{Expr: "open <=> closed", Animation: animate("1s", nil)},
		},
	}
}

func lastKeyframe(instr *domain.TimelineInstruction) domain.Keyframe {
	return instr.Keyframes[len(instr.Keyframes)-1]
}
