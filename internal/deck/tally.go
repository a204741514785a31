package deck

import (
	"errors"
	"sort"
)

// KnownScores are the tally scores the deck accepts.
var KnownScores = []string{
	"absorption",
	"current",
	"decay-rate",
	"elastic",
	"events",
	"fission",
	"flux",
	"heating",
	"inverse-velocity",
	"kappa-fission",
	"nu-fission",
	"nu-scatter",
	"prompt-nu-fission",
	"scatter",
	"total",
}

// IsKnownScore reports whether s is one of KnownScores.
func IsKnownScore(s string) bool {
	i := sort.SearchStrings(KnownScores, s)
	return i < len(KnownScores) && KnownScores[i] == s
}

// Tally pairs mesh filters with the scores to record in them.
type Tally struct {
	Filters []string `json:"filters" yaml:"filters"`
	Scores  []string `json:"scores" yaml:"scores"`
}

// Validate checks the scores and that the filters name existing meshes,
// at most one of each kind.
func (t Tally) Validate(meshes map[string]Mesh) error {
	var errs []error
	if len(t.Scores) == 0 {
		errs = append(errs, invalidf("tally needs at least one score"))
	}
	for _, s := range t.Scores {
		if !IsKnownScore(s) {
			errs = append(errs, invalidf("unknown tally score %q", s))
		}
	}
	kinds := map[MeshKind]string{}
	for _, f := range t.Filters {
		m, ok := meshes[f]
		if !ok {
			errs = append(errs, notFoundf("tally filter %q", f))
			continue
		}
		if prev, dup := kinds[m.Kind]; dup {
			errs = append(errs, invalidf("tally filters %q and %q are both %s filters", prev, f, m.Kind))
			continue
		}
		kinds[m.Kind] = f
	}
	return errors.Join(errs...)
}

func (t Tally) clone() Tally {
	return Tally{
		Filters: append([]string(nil), t.Filters...),
		Scores:  append([]string(nil), t.Scores...),
	}
}
