package purity

import "strings"

// Remediation hints are heuristics keyed on violation kind and pattern
// text. They never affect the verdict.

type remedy struct {
	kind Kind
	subs []string
	text string
}

var remedies = []remedy{
	{SideEffect, []string{FailurePattern}, "The analyzer could not process this input; simplify the surrounding code and retry."},

	{Mutation, []string{"reassignment"}, "Declare a new const inside the function and return it instead of reassigning outer state."},
	{Mutation, []string{"property assignment"}, "Return a new object with spread ({ ...obj, key: value }) instead of assigning to a property."},
	{Mutation, []string{"property update"}, "Compute the new value and return an updated copy ({ ...obj, count: obj.count + 1 })."},
	{Mutation, []string{"property deletion"}, "Build a copy without the key using rest destructuring (const { key, ...rest } = obj)."},
	{Mutation, []string{"Object.", "Reflect."}, "Use object spread to create a new object instead of mutating one through reflection."},
	{Mutation, []string{"push", "unshift"}, "Return a new array with spread ([...arr, item]) or concat instead of adding in place."},
	{Mutation, []string{"pop", "shift", "splice"}, "Use slice or filter to build a new array instead of removing elements in place."},
	{Mutation, []string{"sort", "reverse"}, "Use toSorted or toReversed, or sort a copy ([...arr].sort()), instead of reordering in place."},
	{Mutation, []string{"fill", "copyWithin"}, "Build a new array with map or Array.from instead of overwriting elements."},
	{Mutation, []string{"set"}, "Create a new Map or Set from the old entries instead of modifying a shared one."},
	{Mutation, []string{"add"}, "Create a new Set from the old entries instead of modifying a shared one."},
	{Mutation, []string{"delete"}, "Create a new Map or Set without the entry instead of modifying a shared one."},
	{Mutation, []string{"clear"}, "Start from a new empty collection instead of clearing a shared one."},

	{SideEffect, []string{"console."}, "Remove the logging call and return the information to the caller instead."},
	{SideEffect, []string{"Timeout", "Interval", "Immediate", "Animation", "Idle", "Microtask"}, "Remove the timer; scheduling belongs to the caller."},
	{SideEffect, []string{"fs."}, "Do file I/O outside the generated code and pass the data in as arguments."},
	{SideEffect, []string{"Math.random"}, "Accept a random value or seed as a parameter to keep the function deterministic."},
	{SideEffect, []string{"Date", ".now"}, "Accept the current time as a parameter to keep the function deterministic."},
	{SideEffect, []string{"RegExp"}, "Use a regular expression literal (/pattern/) instead of the RegExp constructor."},
	{SideEffect, []string{"crypto."}, "Accept random values as parameters to keep the function deterministic."},
	{SideEffect, []string{"eval", "Function"}, "Remove dynamic code evaluation and write the logic directly."},
	{SideEffect, []string{"fetch", "http", "net.", "Socket", "XMLHttpRequest", "EventSource", "Worker", "Channel"}, "Move network I/O to the caller and pass the results in."},

	{GlobalAccess, nil, "Pass the needed values in as parameters instead of reading global state."},

	{ForbiddenConstruct, []string{"For"}, "Replace the loop with map, filter, reduce or recursion."},
	{ForbiddenConstruct, []string{"Class"}, "Use a factory function that returns a plain object."},
	{ForbiddenConstruct, []string{"This"}, "Use closures or explicit parameters instead of this."},
	{ForbiddenConstruct, []string{"With"}, "Reference the object's properties explicitly."},
}

// Suggest returns a remediation hint for v, or "" when none applies.
func Suggest(v Violation) string {
	for _, r := range remedies {
		if r.kind != v.Kind {
			continue
		}
		if matchesAny(v.Pattern, r.subs) {
			return r.text
		}
	}
	if v.Kind == SideEffect {
		return "Move the side effect to the caller and keep this code a pure function of its inputs."
	}
	return ""
}

func matchesAny(s string, subs []string) bool {
	if len(subs) == 0 {
		return true
	}
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
