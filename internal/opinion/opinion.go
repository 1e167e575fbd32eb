package opinion

import (
	"encoding/json"
	"fmt"
	"os"
)

// Phrasing selects which wording of a stance to use.
type Phrasing string

const (
	Explicit Phrasing = "explicit"
	Implicit Phrasing = "implicit"
)

// ParsePhrasing validates a CLI/config phrasing value.
func ParsePhrasing(s string) (Phrasing, error) {
	switch Phrasing(s) {
	case Explicit, Implicit:
		return Phrasing(s), nil
	}
	return "", fmt.Errorf("unknown phrasing %q (valid: explicit, implicit)", s)
}

// Stance holds the available wordings of one side of an opinion.
type Stance struct {
	Explicit string `json:"explicit,omitempty"`
	Implicit string `json:"implicit,omitempty"`
}

// Text returns the wording for the given phrasing, if present.
func (s Stance) Text(p Phrasing) (string, bool) {
	switch p {
	case Explicit:
		return s.Explicit, s.Explicit != ""
	case Implicit:
		return s.Implicit, s.Implicit != ""
	}
	return "", false
}

// Opinion is one interview item with a left and a right side.
type Opinion struct {
	Left  Stance `json:"left"`
	Right Stance `json:"right"`
}

// Names is the fixed interviewee roster used across the study. Sampled
// statements are attributed to these names positionally.
var Names = []string{
	"Alex", "Brian", "Chloe", "Daniel", "Emily",
	"Frank", "Grace", "Hannah", "Isaac", "Julia",
}

// Load reads an opinion dataset from a JSON file.
func Load(path string) ([]Opinion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var items []Opinion
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}
	return items, nil
}
