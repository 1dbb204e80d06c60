package prompt

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Prompt represents the structure of a TOML prompt file
type Prompt struct {
	System string `toml:"system"`
	Model  string `toml:"model"`
}

// Load loads a prompt file and returns its contents
func Load(filePath string) (*Prompt, error) {
	var p Prompt
	meta, err := toml.DecodeFile(filePath, &p)
	if err != nil {
		return nil, fmt.Errorf("prompt: decode %s: %w", filePath, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("prompt: %s: unknown keys: %s", filePath, strings.Join(keys, ", "))
	}

	p.System = strings.TrimSpace(p.System)
	if p.System == "" {
		return nil, fmt.Errorf("prompt: %s: system is empty", filePath)
	}

	return &p, nil
}

// Resolve picks the system instruction: inline text wins over a prompt file,
// and an empty result means the caller's default applies.
func Resolve(inline, filePath string) (*Prompt, error) {
	if s := strings.TrimSpace(inline); s != "" {
		return &Prompt{System: s}, nil
	}
	if filePath == "" {
		return &Prompt{}, nil
	}
	return Load(filePath)
}
