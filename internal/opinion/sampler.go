package opinion

import (
	"fmt"
	"math/rand"
	"regexp"
)

// SampleOpts controls one sampling pass over the dataset.
type SampleOpts struct {
	Total     int
	LeftRatio float64
	LeftType  Phrasing
	RightType Phrasing
}

// Selection is the outcome of one sampling pass. Labeled carries the
// "(left) ..." / "(right) ..." forms used for provenance; Clean carries the
// bare statements fed into the prompt. The two lists are shuffled
// independently.
type Selection struct {
	Labeled []string
	Clean   []string
}

// Sampler draws opinion subsets with a deterministic seed so runs are
// reproducible.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws total statements split by LeftRatio: floor(total*ratio) from
// the left candidates and the remainder from the right. A side short on
// candidates yields what it has.
func (s *Sampler) Sample(dataset []Opinion, opts SampleOpts) (Selection, error) {
	if opts.Total <= 0 {
		return Selection{}, fmt.Errorf("sample size must be positive, got %d", opts.Total)
	}
	if opts.LeftRatio < 0 || opts.LeftRatio > 1 {
		return Selection{}, fmt.Errorf("left ratio must be in [0,1], got %g", opts.LeftRatio)
	}

	leftN := int(float64(opts.Total) * opts.LeftRatio)
	rightN := opts.Total - leftN

	var leftTexts, rightTexts []string
	for _, item := range dataset {
		if t, ok := item.Left.Text(opts.LeftType); ok {
			leftTexts = append(leftTexts, t)
		}
	}
	for _, item := range dataset {
		if t, ok := item.Right.Text(opts.RightType); ok {
			rightTexts = append(rightTexts, t)
		}
	}

	leftPicked := s.pick(leftTexts, leftN)
	rightPicked := s.pick(rightTexts, rightN)

	var sel Selection
	for _, t := range leftPicked {
		sel.Labeled = append(sel.Labeled, "(left) "+t)
		sel.Clean = append(sel.Clean, t)
	}
	for _, t := range rightPicked {
		sel.Labeled = append(sel.Labeled, "(right) "+t)
		sel.Clean = append(sel.Clean, t)
	}

	s.rng.Shuffle(len(sel.Labeled), func(i, j int) {
		sel.Labeled[i], sel.Labeled[j] = sel.Labeled[j], sel.Labeled[i]
	})
	s.rng.Shuffle(len(sel.Clean), func(i, j int) {
		sel.Clean[i], sel.Clean[j] = sel.Clean[j], sel.Clean[i]
	})

	return sel, nil
}

// pick draws min(n, len(pool)) elements without replacement.
func (s *Sampler) pick(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	idx := s.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

var labelRe = regexp.MustCompile(`^\((left|right)\)\s*(.*)`)

// MapNames attributes each labeled statement to a roster name positionally,
// producing the "Name: (left) text" provenance form stored with each run.
func MapNames(labeled []string) []string {
	out := make([]string, 0, len(labeled))
	for i, op := range labeled {
		name := "Unknown"
		if i < len(Names) {
			name = Names[i]
		}
		bias, content := "unknown", op
		if m := labelRe.FindStringSubmatch(op); m != nil {
			bias, content = m[1], m[2]
		}
		out = append(out, fmt.Sprintf("%s: (%s) %s", name, bias, content))
	}
	return out
}
