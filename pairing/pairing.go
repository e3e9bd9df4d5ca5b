// Package pairing derives match keys from test image paths and selects the
// reference/test pairs to evaluate.
package pairing

import (
	"errors"
	"fmt"
	"strings"
)

// MarkerError reports a path that does not contain an expected marker
// substring. Callers treat it as a skip condition, not a fatal error.
type MarkerError struct {
	Path   string
	Marker string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("marker %q not found in %q", e.Marker, e.Path)
}

// Extractor derives a match key from a test image path.
//
// Marker is the substring preceding the interesting portion of the path,
// typically the test directory name. Tag is the experiment tag that ends the
// key inside the filename.
type Extractor struct {
	Marker string
	Tag    string
}

// Key extracts the match key from path: the path is cut at Marker, the final
// component of the remainder is isolated, the component is cut at Tag, and
// surrounding underscores are trimmed. Both '/' and '\' count as component
// separators, so paths recorded on another OS still parse.
func (e Extractor) Key(path string) (string, error) {
	if e.Marker == "" || e.Tag == "" {
		return "", errors.New("extractor needs both a marker and a tag")
	}
	_, rest, ok := strings.Cut(path, e.Marker)
	if !ok {
		return "", &MarkerError{Path: path, Marker: e.Marker}
	}
	name := lastComponent(rest)
	key, _, ok := strings.Cut(name, e.Tag)
	if !ok {
		return "", &MarkerError{Path: path, Marker: e.Tag}
	}
	return strings.Trim(key, "_"), nil
}

func lastComponent(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Pair is one reference/test combination selected for evaluation.
type Pair struct {
	Ref  string
	Test string
	Key  string
}

// Skip records a test file that produced no evaluable pair, with the reason.
type Skip struct {
	Test   string
	Reason string
}

// MatchSet is the outcome of pairing one test directory against one
// reference directory.
type MatchSet struct {
	Pairs []Pair
	Skips []Skip

	// Ambiguous maps a match key to the number of reference files it
	// selected, for keys that selected more than one. Ambiguity is accepted,
	// every selected reference is evaluated, but it is surfaced in the run
	// report.
	Ambiguous map[string]int
}

// Match scans every (reference, test) combination and keeps the pairs whose
// reference path contains the test file's match key. A test file whose key
// cannot be extracted, is empty after trimming, or matches no reference is
// recorded as a skip. Each kept pair appears exactly once.
func Match(refs, tests []string, ex Extractor) MatchSet {
	set := MatchSet{Ambiguous: map[string]int{}}
	for _, test := range tests {
		key, err := ex.Key(test)
		if err != nil {
			set.Skips = append(set.Skips, Skip{Test: test, Reason: err.Error()})
			continue
		}
		if key == "" {
			// An empty key is a substring of every reference path; pairing on
			// it would evaluate the whole reference set against one file.
			set.Skips = append(set.Skips, Skip{Test: test, Reason: "extracted match key is empty"})
			continue
		}
		matched := 0
		for _, ref := range refs {
			if strings.Contains(ref, key) {
				set.Pairs = append(set.Pairs, Pair{Ref: ref, Test: test, Key: key})
				matched++
			}
		}
		switch {
		case matched == 0:
			set.Skips = append(set.Skips, Skip{Test: test, Reason: fmt.Sprintf("no reference contains key %q", key)})
		case matched > 1:
			set.Ambiguous[key] = matched
		}
	}
	return set
}
