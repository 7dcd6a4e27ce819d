package styles_test

import (
	"testing"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/styles"
	"github.com/stretchr/testify/assert"
)

type inlineElement struct {
	id    string
	style map[string]string
}

func newInlineElement(id string) *inlineElement {
	return &inlineElement{id: id, style: map[string]string{}}
}

func (e *inlineElement) ID() string                  { return e.id }
func (e *inlineElement) Style(prop string) string    { return e.style[prop] }
func (e *inlineElement) SetStyle(prop, value string) { e.style[prop] = value }
func (e *inlineElement) RemoveStyle(prop string)     { delete(e.style, prop) }

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		dash  string
		camel string
	}{
		{"background-color", "backgroundColor"},
		{"opacity", "opacity"},
		{"border-top-left-radius", "borderTopLeftRadius"},
	}
	for _, tt := range tests {
		t.Run(tt.dash, func(t *testing.T) {
			assert.Equal(t, tt.camel, styles.DashCaseToCamelCase(tt.dash))
			assert.Equal(t, tt.dash, styles.CamelCaseToDashCase(tt.camel))
		})
	}
}

func TestDefaultMergeWindow(t *testing.T) {
	assert.True(t, styles.DefaultMergeWindow(0, 100))
	assert.True(t, styles.DefaultMergeWindow(300, 0))
	assert.False(t, styles.DefaultMergeWindow(300, 100))
}

func TestBalancePreviousStylesIntoKeyframes(t *testing.T) {
	keyframes := []domain.Keyframe{
		{Offset: 0, Styles: domain.StyleMap{"opacity": "0"}},
		{Offset: 1, Styles: domain.StyleMap{"opacity": "1"}},
	}
	previous := domain.StyleMap{"opacity": "0.5", "height": "40px"}

	out := styles.BalancePreviousStylesIntoKeyframes(keyframes, previous, func(prop string) string {
		return "computed-" + prop
	})

	assert.Equal(t, domain.StyleMap{"opacity": "0.5", "height": "40px"}, out[0].Styles)
	assert.Equal(t, domain.StyleMap{"opacity": "1", "height": "computed-height"}, out[1].Styles)
}

func TestBalancePreviousStylesIntoKeyframes_NoPrevious(t *testing.T) {
	keyframes := []domain.Keyframe{{Offset: 0, Styles: domain.StyleMap{"opacity": "0"}}}
	out := styles.BalancePreviousStylesIntoKeyframes(keyframes, nil, nil)
	assert.Equal(t, keyframes, out)
}

func TestSpecialCasedStyles(t *testing.T) {
	el := newInlineElement("box")
	el.style["display"] = "inline"
	table := styles.NewInitialStyles()

	keyframes := []domain.Keyframe{
		{Offset: 0, Styles: domain.StyleMap{"display": "block", "opacity": "0"}},
		{Offset: 1, Styles: domain.StyleMap{"display": "flex", "opacity": "1"}},
	}
	special := styles.PackageNonAnimatableStyles(table, el, keyframes)
	if !assert.NotNil(t, special) {
		return
	}

	special.Start()
	assert.Equal(t, "block", el.style["display"])

	special.Finish()
	assert.Equal(t, "flex", el.style["display"])

	special.Destroy()
	assert.Equal(t, "inline", el.style["display"], "initial value is restored")
	_, touched := el.style["opacity"]
	assert.False(t, touched)
}

func TestPackageNonAnimatableStyles_None(t *testing.T) {
	el := newInlineElement("box")
	keyframes := []domain.Keyframe{{Offset: 0, Styles: domain.StyleMap{"opacity": "0"}}}
	assert.Nil(t, styles.PackageNonAnimatableStyles(styles.NewInitialStyles(), el, keyframes))
}
