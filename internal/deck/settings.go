package deck

import "errors"

// Box is an axis-aligned source region.
type Box struct {
	Lower [3]float64 `json:"lower" yaml:"lower"`
	Upper [3]float64 `json:"upper" yaml:"upper"`
}

// RunSettings are the eigenvalue run parameters.
type RunSettings struct {
	Batches             int `json:"batches" yaml:"batches"`
	Inactive            int `json:"inactive" yaml:"inactive"`
	GenerationsPerBatch int `json:"generations_per_batch" yaml:"generations_per_batch"`
	Particles           int `json:"particles" yaml:"particles"`
	Source              Box `json:"source" yaml:"source"`
}

// DefaultRunSettings returns the settings a new deck starts with.
func DefaultRunSettings() RunSettings {
	return RunSettings{
		Batches:             10,
		Inactive:            5,
		GenerationsPerBatch: 10,
		Particles:           500,
	}
}

// SourceFromGeometry sets the source box to the root geometry's extent.
func (s *RunSettings) SourceFromGeometry(g Geometry) {
	s.Source = Box{Lower: g.Lower(), Upper: g.Upper()}
}

// Validate checks the batch counts and source box.
func (s RunSettings) Validate() error {
	var errs []error
	if s.Batches < 1 {
		errs = append(errs, invalidf("batches must be at least 1"))
	}
	if s.Inactive < 0 || s.Inactive >= s.Batches {
		errs = append(errs, invalidf("inactive batches %d must be in [0, %d)", s.Inactive, s.Batches))
	}
	if s.GenerationsPerBatch < 1 {
		errs = append(errs, invalidf("generations per batch must be at least 1"))
	}
	if s.Particles < 1 {
		errs = append(errs, invalidf("particles must be positive"))
	}
	for i := range s.Source.Lower {
		if s.Source.Lower[i] > s.Source.Upper[i] {
			errs = append(errs, invalidf("source box lower corner exceeds upper on axis %d", i))
			break
		}
	}
	return errors.Join(errs...)
}
