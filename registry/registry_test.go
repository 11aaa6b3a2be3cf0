package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repovault/repovault/entity"
)

func desc(name string, deps ...string) entity.Descriptor {
	return entity.Descriptor{
		Name:                 name,
		ConfigKey:            "INCLUDE_" + name,
		DefaultEnabled:       true,
		ValueKind:            entity.Boolean,
		Dependencies:         deps,
		RequiredServicesSave: []entity.Service{entity.ServiceRemote},
	}
}

func TestNew_DuplicateName(t *testing.T) {
	_, err := New([]entity.Descriptor{desc("a"), desc("a")})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "a", cfgErr.Entity)
	assert.Contains(t, cfgErr.Reason, "duplicate")
}

func TestNew_UnknownDependency(t *testing.T) {
	_, err := New([]entity.Descriptor{desc("a", "ghost")})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "a", cfgErr.Entity)
	assert.Contains(t, cfgErr.Reason, "ghost")
}

func TestNew_SelfDependency(t *testing.T) {
	_, err := New([]entity.Descriptor{desc("a", "a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

func TestNew_Cycle(t *testing.T) {
	_, err := New([]entity.Descriptor{desc("a", "b"), desc("b", "c"), desc("c", "a")})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "cycle")
}

func TestNew_MissingName(t *testing.T) {
	_, err := New([]entity.Descriptor{{ConfigKey: "X"}})
	require.Error(t, err)
}

func TestNew_MissingConfigKey(t *testing.T) {
	_, err := New([]entity.Descriptor{{Name: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config key")
}

func TestConfigureFrom_Defaults(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a")})
	require.NoError(t, err)

	require.NoError(t, r.ConfigureFrom(nil))
	e, ok := r.Lookup("a")
	require.True(t, ok)
	assert.True(t, e.Enabled)
}

func TestConfigureFrom_BooleanValues(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a"), desc("b")})
	require.NoError(t, err)

	require.NoError(t, r.ConfigureFrom(map[string]string{
		"INCLUDE_a": "off",
		"INCLUDE_b": "YES",
	}))
	a, _ := r.Lookup("a")
	b, _ := r.Lookup("b")
	assert.False(t, a.Enabled)
	assert.True(t, b.Enabled)
}

func TestConfigureFrom_NumericSelection(t *testing.T) {
	d := desc("issues")
	d.ValueKind = entity.NumericSelection
	r, err := New([]entity.Descriptor{d})
	require.NoError(t, err)

	require.NoError(t, r.ConfigureFrom(map[string]string{"INCLUDE_issues": "5-10"}))
	e, _ := r.Lookup("issues")
	assert.True(t, e.Enabled)
	assert.True(t, e.Value.Selective())
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, e.Value.List())
}

func TestConfigureFrom_MalformedValue(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a")})
	require.NoError(t, err)

	err = r.ConfigureFrom(map[string]string{"INCLUDE_a": "maybe"})
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "a", valErr.Entity)
	assert.Equal(t, "maybe", valErr.Raw)
}

func TestConfigureFrom_Idempotent(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a"), desc("b", "a"), desc("c", "b")})
	require.NoError(t, err)

	values := map[string]string{"INCLUDE_a": "false"}
	require.NoError(t, r.ConfigureFrom(values))
	require.NoError(t, r.ValidateDependencies(false))

	first := make(map[string]bool)
	for _, e := range r.Entities() {
		first[e.Name()] = e.Enabled
	}

	require.NoError(t, r.ConfigureFrom(values))
	require.NoError(t, r.ValidateDependencies(false))
	for _, e := range r.Entities() {
		assert.Equal(t, first[e.Name()], e.Enabled, "entity %s changed between identical runs", e.Name())
	}
}

func TestValidateDependencies_TransitiveCascade(t *testing.T) {
	// c -> b -> a; disabling a must take down b and c.
	r, err := New([]entity.Descriptor{desc("a"), desc("b", "a"), desc("c", "b")})
	require.NoError(t, err)

	require.NoError(t, r.ConfigureFrom(map[string]string{"INCLUDE_a": "false"}))
	require.NoError(t, r.ValidateDependencies(false))

	a, _ := r.Lookup("a")
	b, _ := r.Lookup("b")
	c, _ := r.Lookup("c")
	assert.False(t, a.Enabled)
	assert.False(t, b.Enabled)
	assert.False(t, c.Enabled)
	assert.Empty(t, a.DisabledReason, "explicitly disabled entity carries no cascade reason")
	assert.Contains(t, b.DisabledReason, `"a"`)
	assert.Contains(t, c.DisabledReason, `"b"`)
}

func TestValidateDependencies_Strict(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a"), desc("b", "a"), desc("c", "b")})
	require.NoError(t, err)

	require.NoError(t, r.ConfigureFrom(map[string]string{"INCLUDE_a": "false"}))
	err = r.ValidateDependencies(true)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "b", cfgErr.Entity)
	assert.Contains(t, cfgErr.Reason, `"a"`)
}

func TestValidateDependencies_CascadeNeverReenables(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a"), desc("b", "a")})
	require.NoError(t, err)

	require.NoError(t, r.ConfigureFrom(map[string]string{"INCLUDE_a": "false", "INCLUDE_b": "true"}))
	require.NoError(t, r.ValidateDependencies(false))
	require.NoError(t, r.ValidateDependencies(false))

	b, _ := r.Lookup("b")
	assert.False(t, b.Enabled)
}

func TestComputeLevels_Scenario(t *testing.T) {
	r, err := New([]entity.Descriptor{
		desc("labels"),
		desc("milestones"),
		desc("issues", "milestones"),
		desc("comments", "issues"),
		desc("sub_issues", "issues"),
	})
	require.NoError(t, err)
	require.NoError(t, r.ConfigureFrom(nil))
	require.NoError(t, r.ValidateDependencies(false))

	levels, err := r.ComputeLevels()
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, []string{"labels", "milestones"}, names(levels[0]))
	assert.Equal(t, []string{"issues"}, names(levels[1]))
	assert.Equal(t, []string{"comments", "sub_issues"}, names(levels[2]))
}

func TestComputeLevels_TopologicalProperty(t *testing.T) {
	r, err := Discover()
	require.NoError(t, err)
	require.NoError(t, r.ConfigureFrom(nil))
	require.NoError(t, r.ValidateDependencies(false))

	levels, err := r.ComputeLevels()
	require.NoError(t, err)

	levelOf := make(map[string]int)
	for i, level := range levels {
		for _, e := range level {
			levelOf[e.Name()] = i
		}
	}
	for _, e := range r.EnabledEntities() {
		for _, dep := range e.Descriptor.Dependencies {
			assert.Less(t, levelOf[dep], levelOf[e.Name()],
				"dependency %s must be scheduled before %s", dep, e.Name())
		}
	}
}

func TestComputeLevels_DisabledEntitiesExcluded(t *testing.T) {
	r, err := New([]entity.Descriptor{desc("a"), desc("b", "a")})
	require.NoError(t, err)
	require.NoError(t, r.ConfigureFrom(map[string]string{"INCLUDE_a": "false"}))
	require.NoError(t, r.ValidateDependencies(false))

	levels, err := r.ComputeLevels()
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestDiscover_Catalog(t *testing.T) {
	r, err := Discover()
	require.NoError(t, err)
	assert.NotEmpty(t, r.Entities())

	_, ok := r.Lookup("issues")
	assert.True(t, ok)
}

func names(level []*Entity) []string {
	out := make([]string, len(level))
	for i, e := range level {
		out[i] = e.Name()
	}
	return out
}
