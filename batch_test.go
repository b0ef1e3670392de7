package puregate

import (
	"context"
	"fmt"
	"testing"

	"github.com/deepnoodle-ai/puregate/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchInputs() []Input {
	return []Input{
		{Source: "const add = (a, b) => a + b;"},
		{Source: "const x = ;"},
		{Source: "console.log('hi');"},
		{Source: "var a = 1;\nmodule.exports = a;", Options: []CallOption{SkipStyle()}},
		{Source: "module.exports = () => [setTimeout, fetch];", Options: []CallOption{WithAllowedIdentifiers("fetch")}},
	}
}

func TestValidateBatch(t *testing.T) {
	reports := New().ValidateBatch(context.Background(), batchInputs())
	require.Len(t, reports, 5)
	var valid []bool
	for _, r := range reports {
		valid = append(valid, r.Valid)
	}
	assert.Equal(t, []bool{true, false, false, true, false}, valid)
	assert.Equal(t, "setTimeout", reports[4].Errors[0].Rule)
}

func TestValidateConcurrentMatchesSequential(t *testing.T) {
	var inputs []Input
	for i := 0; i < 6; i++ {
		inputs = append(inputs, batchInputs()...)
	}
	v := New()
	sequential := v.ValidateBatch(context.Background(), inputs)
	concurrent, err := v.ValidateConcurrent(context.Background(), inputs, 4)
	require.NoError(t, err)
	require.Len(t, concurrent, len(sequential))
	for i := range inputs {
		assert.Equal(t, sequential[i].Valid, concurrent[i].Valid, "input %d", i)
		assert.Equal(t, sequential[i].Errors, concurrent[i].Errors, "input %d", i)
		assert.Equal(t, sequential[i].Warnings, concurrent[i].Warnings, "input %d", i)
	}

	defaults, err := v.ValidateConcurrent(context.Background(), inputs[:2], 0)
	require.NoError(t, err)
	assert.Len(t, defaults, 2)
}

func TestValidateCompletesWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var lintErr error
	linter := style.LinterFunc(func(ctx context.Context, _ string, _ style.Config, _ string) ([]style.Message, error) {
		lintErr = ctx.Err()
		return nil, nil
	})
	report := New(WithLinter(linter)).Validate(ctx, "const add = (a, b) => a + b;")
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	require.NotNil(t, report.Purity)
	require.NotNil(t, report.Style)
	assert.NoError(t, lintErr)

	reports := New().ValidateBatch(ctx, batchInputs())
	want := New().ValidateBatch(context.Background(), batchInputs())
	require.Len(t, reports, len(want))
	for i := range want {
		assert.Equal(t, want[i].Valid, reports[i].Valid, "input %d", i)
		assert.Equal(t, len(want[i].Errors), len(reports[i].Errors), "input %d", i)
	}
}

func TestValidateConcurrentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err := New().ValidateConcurrent(ctx, batchInputs(), 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, reports, 5)
}

func TestCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	v := New(WithCache(c))
	src := "let counter = 0; const inc = () => { counter = counter + 1; };"

	first := v.Validate(context.Background(), src)
	assert.False(t, first.Cached)

	second := v.Validate(context.Background(), src)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Valid, second.Valid)
	require.Len(t, second.Errors, len(first.Errors))
	for i := range first.Errors {
		assert.Equal(t, first.Errors[i], second.Errors[i])
	}
	assert.Len(t, second.Warnings, len(first.Warnings))
	require.NotNil(t, second.Purity)
	assert.Nil(t, second.Syntax.Program)

	other := v.Validate(context.Background(), src, WithAllowedIdentifiers("x"))
	assert.False(t, other.Cached)
	again := v.Validate(context.Background(), src, WithAllowedIdentifiers("x"))
	assert.True(t, again.Cached)
}

func TestCacheKeyIgnoresOptionOrder(t *testing.T) {
	a := collectCallOptions(WithAllowedIdentifiers("b", "a"), WithFilename("f.js")).cacheKey("src")
	b := collectCallOptions(WithFilename("f.js"), WithAllowedIdentifiers("a"), WithAllowedIdentifiers("b")).cacheKey("src")
	c := collectCallOptions(WithFilename("g.js"), WithAllowedIdentifiers("a", "b")).cacheKey("src")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEmpty(t, a)
}

func ExampleValidator_Validate() {
	v := New()
	report := v.Validate(context.Background(), "let counter = 0;\nconst inc = () => { counter = counter + 1; };\nmodule.exports = inc;")
	fmt.Println(report.Valid)
	for _, d := range report.Errors {
		fmt.Println(d.Category, d.Rule)
	}
	// Output:
	// false
	// purity variable reassignment: counter
}
