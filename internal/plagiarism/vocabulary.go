package plagiarism

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// CountVector is a sparse vocabulary-index -> occurrence count mapping.
type CountVector map[int]int

// Dense expands the vector to a slice of the given size.
func (v CountVector) Dense(size int) []int {
	dense := make([]int, size)
	for idx, count := range v {
		if idx >= 0 && idx < size {
			dense[idx] = count
		}
	}
	return dense
}

// Vocabulary maps tokens to stable indices. It is fitted once on the target
// set and is read-only afterwards, so it can be shared between workers.
type Vocabulary struct {
	minTokenLength int
	index          map[string]int
	terms          []string
	fitted         bool
}

// NewVocabulary creates an unfitted vocabulary. Tokens shorter than
// minTokenLength runes are ignored; values below 1 keep every token.
func NewVocabulary(minTokenLength int) *Vocabulary {
	if minTokenLength < 1 {
		minTokenLength = 1
	}
	return &Vocabulary{minTokenLength: minTokenLength}
}

// Fit builds the vocabulary from the given token sequences. Indices follow
// lexicographic token order. Fit may only be called once.
func (v *Vocabulary) Fit(sequences [][]string) error {
	if v.fitted {
		return fmt.Errorf("%w: vocabulary already fitted", ErrInvalidState)
	}

	seen := make(map[string]struct{})
	for _, tokens := range sequences {
		for _, token := range tokens {
			if !v.accepts(token) {
				continue
			}
			seen[token] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for token := range seen {
		terms = append(terms, token)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, token := range terms {
		index[token] = i
	}

	v.terms = terms
	v.index = index
	v.fitted = true
	return nil
}

// Transform counts the vocabulary tokens in tokens. Unknown tokens are ignored.
func (v *Vocabulary) Transform(tokens []string) (CountVector, error) {
	if !v.fitted {
		return nil, fmt.Errorf("%w: transform called before fit", ErrInvalidState)
	}

	vector := make(CountVector)
	for _, token := range tokens {
		if idx, ok := v.index[token]; ok {
			vector[idx]++
		}
	}
	return vector, nil
}

// Index returns the index assigned to token.
func (v *Vocabulary) Index(token string) (int, bool) {
	idx, ok := v.index[token]
	return idx, ok
}

// Terms returns the vocabulary in index order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

func (v *Vocabulary) Size() int {
	return len(v.terms)
}

func (v *Vocabulary) Fitted() bool {
	return v.fitted
}

func (v *Vocabulary) accepts(token string) bool {
	return utf8.RuneCountInString(token) >= v.minTokenLength
}
