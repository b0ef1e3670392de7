package purity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchMember(t *testing.T) {
	r := DefaultRules()

	pattern, c, ok := r.MatchMember("console.log")
	require.True(t, ok)
	assert.Equal(t, "console.log", pattern)
	assert.Equal(t, ClassLogging, c)

	pattern, c, ok = r.MatchMember("fs.promises.readFile")
	require.True(t, ok)
	assert.Equal(t, "fs.promises.*", pattern)
	assert.Equal(t, ClassFileIO, c)

	pattern, _, ok = r.MatchMember("child_process.exec.call")
	require.True(t, ok)
	assert.Equal(t, "child_process.*", pattern)

	for _, path := range []string{"fs.promises", "fs.constants", "console", "Math.max"} {
		_, _, ok := r.MatchMember(path)
		assert.False(t, ok, path)
	}
}

func TestMatchMemberPrefersExact(t *testing.T) {
	r := DefaultRules()
	r.Members["a.*"] = ClassGlobal
	r.Members["a.b.*"] = ClassNetwork
	r.Members["a.b.c"] = ClassTimer

	pattern, c, _ := r.MatchMember("a.b.c")
	assert.Equal(t, "a.b.c", pattern)
	assert.Equal(t, ClassTimer, c)

	pattern, c, _ = r.MatchMember("a.b.d")
	assert.Equal(t, "a.b.*", pattern)
	assert.Equal(t, ClassNetwork, c)

	pattern, _, _ = r.MatchMember("a.x")
	assert.Equal(t, "a.*", pattern)
}

func TestAllowCopies(t *testing.T) {
	base := DefaultRules()
	allowed := base.Allow([]string{"fetch"}, []string{"console.*", "sort", "Object.assign"})

	assert.Contains(t, base.Identifiers, "fetch")
	assert.NotContains(t, allowed.Identifiers, "fetch")
	assert.True(t, base.MutatingMethods["sort"])
	assert.False(t, allowed.MutatingMethods["sort"])
	assert.False(t, allowed.MutatingCalls["Object.assign"])

	_, _, ok := allowed.MatchMember("console.error")
	assert.False(t, ok)
	_, _, ok = base.MatchMember("console.error")
	assert.True(t, ok)
}

func TestDefaultRulesAreIndependent(t *testing.T) {
	a := DefaultRules()
	delete(a.Identifiers, "window")
	assert.Contains(t, DefaultRules().Identifiers, "window")
}

func TestClassKinds(t *testing.T) {
	assert.Equal(t, GlobalAccess, ClassGlobal.Kind())
	assert.Equal(t, GlobalAccess, ClassStorage.Kind())
	assert.Equal(t, GlobalAccess, ClassProcess.Kind())
	assert.Equal(t, SideEffect, ClassTimer.Kind())
	assert.Equal(t, SideEffect, ClassFileIO.Kind())
	assert.Equal(t, SideEffect, ClassNondeterministic.Kind())
	assert.Equal(t, "file-io", ClassFileIO.String())
	assert.Equal(t, "unknown", Class(99).String())
}

func TestSortedListings(t *testing.T) {
	r := DefaultRules()
	names := r.IdentifierNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "setTimeout")
	assert.IsIncreasing(t, r.MemberPatterns())
	assert.Len(t, r.ConstructKinds(), 7)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		v    Violation
		want string
	}{
		{Violation{Kind: Mutation, Pattern: "push"}, "spread"},
		{Violation{Kind: Mutation, Pattern: "pop"}, "slice"},
		{Violation{Kind: Mutation, Pattern: "sort"}, "toSorted"},
		{Violation{Kind: Mutation, Pattern: "reverse"}, "toReversed"},
		{Violation{Kind: Mutation, Pattern: "variable reassignment: pushCount"}, "new const"},
		{Violation{Kind: Mutation, Pattern: "property assignment"}, "spread"},
		{Violation{Kind: Mutation, Pattern: "Object.setPrototypeOf"}, "reflection"},
		{Violation{Kind: Mutation, Pattern: "set"}, "Map"},
		{Violation{Kind: SideEffect, Pattern: "console.log"}, "logging"},
		{Violation{Kind: SideEffect, Pattern: "Math.random"}, "deterministic"},
		{Violation{Kind: SideEffect, Pattern: "fs.promises.*"}, "file I/O"},
		{Violation{Kind: SideEffect, Pattern: "alert"}, "pure function"},
		{Violation{Kind: SideEffect, Pattern: FailurePattern}, "could not process"},
		{Violation{Kind: GlobalAccess, Pattern: "window"}, "parameters"},
		{Violation{Kind: ForbiddenConstruct, Pattern: "ForOfStatement"}, "map, filter, reduce or recursion"},
		{Violation{Kind: ForbiddenConstruct, Pattern: "ClassExpression"}, "factory"},
		{Violation{Kind: ForbiddenConstruct, Pattern: "ThisExpression"}, "closures"},
	}
	for _, tt := range tests {
		assert.Contains(t, Suggest(tt.v), tt.want, tt.v.Pattern)
	}
	assert.Empty(t, Suggest(Violation{Kind: Mutation, Pattern: "mystery"}))
}
