package style

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/deepnoodle-ai/puregate/errors"
	"github.com/hashicorp/go-multierror"
)

// Level is the configured level of a rule. The numeric values match the
// severities reported in Message.
type Level int

const (
	Off Level = iota
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel accepts "off", "warn", "error" or their numeric forms.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return Off, nil
	case "warn", "warning", "1":
		return Warn, nil
	case "error", "2":
		return Error, nil
	}
	return Off, fmt.Errorf("invalid rule level %q (expected off, warn or error)", s)
}

// UnmarshalText lets levels be decoded from TOML and flag values.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Config maps rule ids to levels. Rules absent from the map keep their
// default level.
type Config map[string]Level

// Merge returns a new config holding defaults overlaid with overrides.
func Merge(defaults, overrides Config) Config {
	out := make(Config, len(defaults)+len(overrides))
	maps.Copy(out, defaults)
	maps.Copy(out, overrides)
	return out
}

// Validate reports every rule id that is not in known, with "did you mean"
// hints where a close match exists.
func (c Config) Validate(known []string) error {
	var result *multierror.Error
	for _, id := range slices.Sorted(maps.Keys(c)) {
		if slices.Contains(known, id) {
			continue
		}
		msg := fmt.Sprintf("unknown style rule %q", id)
		if hint := errors.DidYouMean(id, known); hint != "" {
			msg += "; " + hint
		}
		result = multierror.Append(result, fmt.Errorf("%s", msg))
	}
	return result.ErrorOrNil()
}

// ParseRuleFlag parses a "name=level" pair as given on the command line.
func ParseRuleFlag(s string) (string, Level, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", Off, fmt.Errorf("invalid rule %q (expected name=level)", s)
	}
	level, err := ParseLevel(value)
	if err != nil {
		return "", Off, fmt.Errorf("rule %s: %w", name, err)
	}
	return name, level, nil
}

type fileConfig struct {
	Rules  Config `toml:"rules"`
	MaxLen int    `toml:"max_len"`
}

// FileSettings is the contents of a style configuration file.
type FileSettings struct {
	Rules  Config
	MaxLen int
}

// LoadFile reads a TOML style configuration:
//
//	max_len = 100
//
//	[rules]
//	no-var = "error"
//	eqeqeq = "off"
func LoadFile(path string) (FileSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileSettings{}, err
	}
	settings, err := ParseFile(string(data))
	if err != nil {
		return FileSettings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// ParseFile decodes TOML style configuration text.
func ParseFile(text string) (FileSettings, error) {
	var cfg fileConfig
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return FileSettings{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileSettings{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if cfg.MaxLen < 0 {
		return FileSettings{}, fmt.Errorf("max_len must not be negative")
	}
	return FileSettings{Rules: cfg.Rules, MaxLen: cfg.MaxLen}, nil
}
