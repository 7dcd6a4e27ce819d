package registry_test

import (
	"testing"

	"github.com/aretw0/cadence/pkg/adapters/csskeyframes"
	"github.com/aretw0/cadence/pkg/adapters/htmldom"
	"github.com/aretw0/cadence/pkg/adapters/noop"
	"github.com/aretw0/cadence/pkg/adapters/webanim"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := registry.Default()
	assert.Equal(t, []string{"css-keyframes", "noop", "web-animations"}, r.Names())

	doc, err := htmldom.ParseString(`<div></div>`)
	require.NoError(t, err)
	env := registry.Env{Document: doc, Host: doc}

	d, err := r.Driver("noop", registry.Env{})
	require.NoError(t, err)
	assert.IsType(t, &noop.Driver{}, d)

	d, err = r.Driver(csskeyframes.Backend, env)
	require.NoError(t, err)
	assert.IsType(t, &csskeyframes.Driver{}, d)

	d, err = r.Driver(webanim.Backend, env)
	require.NoError(t, err)
	assert.IsType(t, &webanim.Driver{}, d)
}

func TestDriver_Errors(t *testing.T) {
	r := registry.Default()

	_, err := r.Driver("canvas", registry.Env{})
	assert.ErrorContains(t, err, "driver not found: canvas")

	_, err = r.Driver(csskeyframes.Backend, registry.Env{})
	assert.ErrorContains(t, err, "needs a document")
}

func TestRegister_Overwrites(t *testing.T) {
	r := registry.NewRegistry()
	calls := 0
	r.Register("custom", func(env registry.Env) (ports.Driver, error) {
		calls++
		assert.NotNil(t, env.Scheduler, "a scheduler is always provided")
		return noop.New(), nil
	})
	r.Register("custom", func(registry.Env) (ports.Driver, error) {
		calls += 10
		return noop.New(), nil
	})

	_, err := r.Driver("custom", registry.Env{})
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
}
