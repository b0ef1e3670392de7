package purity

import (
	"maps"
	"slices"
	"strings"

	"github.com/deepnoodle-ai/puregate/ast"
)

// Class groups forbidden identifiers and member paths by the kind of impure
// behavior they represent. The class decides the violation kind and message.
type Class int

const (
	ClassGlobal Class = iota
	ClassStorage
	ClassProcess
	ClassTimer
	ClassLogging
	ClassFileIO
	ClassNetwork
	ClassNondeterministic
	ClassDynamicCode
	ClassUI
)

var classNames = map[Class]string{
	ClassGlobal:           "global",
	ClassStorage:          "storage",
	ClassProcess:          "process",
	ClassTimer:            "timer",
	ClassLogging:          "logging",
	ClassFileIO:           "file-io",
	ClassNetwork:          "network",
	ClassNondeterministic: "nondeterministic",
	ClassDynamicCode:      "dynamic-code",
	ClassUI:               "ui",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// Kind returns the violation kind reported for the class.
func (c Class) Kind() Kind {
	switch c {
	case ClassGlobal, ClassStorage, ClassProcess:
		return GlobalAccess
	default:
		return SideEffect
	}
}

func (c Class) message(name string) string {
	switch c {
	case ClassGlobal:
		return "access to global object '" + name + "' is not allowed; pass the value in as a parameter"
	case ClassStorage:
		return "access to storage or navigation API '" + name + "' is not allowed"
	case ClassProcess:
		return "access to process-control API '" + name + "' is not allowed"
	case ClassTimer:
		return "timer scheduling through '" + name + "' is a side effect"
	case ClassLogging:
		return "logging through '" + name + "' is a side effect"
	case ClassFileIO:
		return "file I/O through '" + name + "' is a side effect"
	case ClassNetwork:
		return "network I/O through '" + name + "' is a side effect"
	case ClassNondeterministic:
		return "'" + name + "' is not deterministic; the same inputs must always produce the same output"
	case ClassDynamicCode:
		return "dynamic code evaluation through '" + name + "' is a side effect"
	case ClassUI:
		return "user interaction through '" + name + "' is a side effect"
	}
	return "'" + name + "' is not allowed"
}

// Rules holds the forbidden and permitted sets the analyzer checks against.
// A Rules value is read-only once analysis starts; use Allow to derive a
// variant with entries removed.
type Rules struct {
	// Identifiers are free identifiers that may not be referenced.
	Identifiers map[string]Class

	// Members are dotted member paths that may not be accessed. A key
	// ending in ".*" matches any path strictly under its prefix.
	Members map[string]Class

	// Constructs maps forbidden node kinds (see ast.Kind) to the message
	// reported for them.
	Constructs map[string]string

	// MutatingMethods are method names that modify their receiver in place.
	MutatingMethods map[string]bool

	// MutatingCalls are dotted reflection calls that modify their first
	// argument.
	MutatingCalls map[string]bool

	// PureMethods are method names that never modify their receiver. They
	// are checked before MutatingMethods.
	PureMethods map[string]bool

	allowed []string
}

// DefaultRules returns a fresh copy of the baseline rule set.
func DefaultRules() *Rules {
	r := &Rules{
		Identifiers:     map[string]Class{},
		Members:         map[string]Class{},
		Constructs:      map[string]string{},
		MutatingMethods: map[string]bool{},
		MutatingCalls:   map[string]bool{},
		PureMethods:     map[string]bool{},
	}
	addClass(r.Identifiers, ClassGlobal, "window", "document", "globalThis", "global", "self")
	addClass(r.Identifiers, ClassStorage,
		"localStorage", "sessionStorage", "indexedDB", "navigator", "location", "history", "caches")
	addClass(r.Identifiers, ClassProcess, "process", "Deno", "Bun")
	addClass(r.Identifiers, ClassTimer,
		"setTimeout", "setInterval", "setImmediate", "clearTimeout", "clearInterval", "clearImmediate",
		"requestAnimationFrame", "cancelAnimationFrame", "requestIdleCallback", "queueMicrotask")
	addClass(r.Identifiers, ClassNetwork,
		"fetch", "XMLHttpRequest", "WebSocket", "EventSource", "Worker", "BroadcastChannel")
	addClass(r.Identifiers, ClassNondeterministic, "Date", "RegExp")
	addClass(r.Identifiers, ClassDynamicCode, "eval", "Function")
	addClass(r.Identifiers, ClassUI, "alert", "prompt", "confirm")

	addClass(r.Members, ClassLogging,
		"console.log", "console.info", "console.warn", "console.error", "console.debug",
		"console.trace", "console.dir", "console.table", "console.time", "console.timeEnd",
		"console.group", "console.groupEnd", "console.assert", "console.count")
	addClass(r.Members, ClassNondeterministic,
		"Math.random", "Date.now", "crypto.getRandomValues", "crypto.randomUUID", "performance.now")
	addClass(r.Members, ClassFileIO,
		"fs.promises.*",
		"fs.readFile", "fs.readFileSync", "fs.writeFile", "fs.writeFileSync",
		"fs.appendFile", "fs.appendFileSync", "fs.unlink", "fs.unlinkSync",
		"fs.mkdir", "fs.mkdirSync", "fs.rm", "fs.rmSync", "fs.readdir", "fs.readdirSync",
		"fs.stat", "fs.statSync", "fs.existsSync", "fs.createReadStream", "fs.createWriteStream")
	addClass(r.Members, ClassNetwork,
		"http.request", "http.get", "https.request", "https.get", "net.connect", "net.createConnection")
	addClass(r.Members, ClassProcess, "child_process.*")

	loop := "loops are not allowed; use map, filter, reduce or recursion instead"
	class := "classes are not allowed; use factory functions that return plain objects"
	r.Constructs[ast.KindFor] = "for " + loop
	r.Constructs[ast.KindForIn] = "for...in " + loop
	r.Constructs[ast.KindForOf] = "for...of " + loop
	r.Constructs[ast.KindClassDeclaration] = class
	r.Constructs[ast.KindClassExpression] = class
	r.Constructs[ast.KindThis] = "'this' is not allowed; use closures or explicit parameters"
	r.Constructs[ast.KindWith] = "'with' statements are not allowed; reference object properties explicitly"

	addSet(r.MutatingMethods,
		"push", "pop", "shift", "unshift", "splice", "sort", "reverse", "fill", "copyWithin",
		"set", "add", "delete", "clear")
	addSet(r.MutatingCalls,
		"Object.assign", "Object.defineProperty", "Object.defineProperties", "Object.setPrototypeOf",
		"Reflect.set", "Reflect.defineProperty", "Reflect.deleteProperty", "Reflect.setPrototypeOf")
	addSet(r.PureMethods,
		"map", "filter", "reduce", "reduceRight", "concat", "slice", "flat", "flatMap",
		"toSorted", "toReversed", "toSpliced", "with", "find", "findIndex", "findLast",
		"findLastIndex", "some", "every", "includes", "indexOf", "lastIndexOf", "join",
		"keys", "values", "entries", "forEach", "get", "has", "at",
		"split", "trim", "trimStart", "trimEnd", "toUpperCase", "toLowerCase", "replace",
		"replaceAll", "padStart", "padEnd", "startsWith", "endsWith", "substring", "charAt",
		"charCodeAt", "repeat", "toString", "toFixed")
	return r
}

func addClass(m map[string]Class, c Class, names ...string) {
	for _, n := range names {
		m[n] = c
	}
}

func addSet(m map[string]bool, names ...string) {
	for _, n := range names {
		m[n] = true
	}
}

// Clone returns a deep copy of r.
func (r *Rules) Clone() *Rules {
	return &Rules{
		Identifiers:     maps.Clone(r.Identifiers),
		Members:         maps.Clone(r.Members),
		Constructs:      maps.Clone(r.Constructs),
		MutatingMethods: maps.Clone(r.MutatingMethods),
		MutatingCalls:   maps.Clone(r.MutatingCalls),
		PureMethods:     maps.Clone(r.PureMethods),
		allowed:         slices.Clone(r.allowed),
	}
}

// Allow returns a copy of r with the given identifiers and member paths
// permitted. A member entry may be an exact path, a "prefix.*" wildcard or
// a bare method name. Entries that match nothing are ignored.
func (r *Rules) Allow(identifiers, members []string) *Rules {
	out := r.Clone()
	for _, name := range identifiers {
		delete(out.Identifiers, name)
	}
	for _, path := range members {
		if path == "" {
			continue
		}
		delete(out.Members, path)
		delete(out.MutatingCalls, path)
		if !strings.Contains(path, ".") {
			delete(out.MutatingMethods, path)
		}
		out.allowed = append(out.allowed, path)
	}
	return out
}

// MatchMember finds the forbidden pattern for a dotted member path. Exact
// entries win over wildcards, and longer wildcard prefixes win over shorter
// ones.
func (r *Rules) MatchMember(path string) (string, Class, bool) {
	if r.isAllowed(path) {
		return "", 0, false
	}
	if c, ok := r.Members[path]; ok {
		return path, c, true
	}
	prefix := path
	for {
		i := strings.LastIndexByte(prefix, '.')
		if i < 0 {
			return "", 0, false
		}
		prefix = prefix[:i]
		pattern := prefix + ".*"
		if c, ok := r.Members[pattern]; ok {
			return pattern, c, true
		}
	}
}

func (r *Rules) isAllowed(path string) bool {
	for _, a := range r.allowed {
		if a == path {
			return true
		}
		if prefix, ok := strings.CutSuffix(a, ".*"); ok && strings.HasPrefix(path, prefix+".") {
			return true
		}
	}
	return false
}

// IdentifierNames returns the forbidden identifiers in sorted order.
func (r *Rules) IdentifierNames() []string {
	return slices.Sorted(maps.Keys(r.Identifiers))
}

// MemberPatterns returns the forbidden member patterns in sorted order.
func (r *Rules) MemberPatterns() []string {
	return slices.Sorted(maps.Keys(r.Members))
}

// ConstructKinds returns the forbidden node kinds in sorted order.
func (r *Rules) ConstructKinds() []string {
	return slices.Sorted(maps.Keys(r.Constructs))
}
