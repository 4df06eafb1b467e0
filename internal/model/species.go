package model

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Species holds the environmental tolerance windows for one farmed species.
// Depths are positive meters below the surface; temperatures are degrees
// Celsius. Both windows are closed intervals.
type Species struct {
	Name      string  `yaml:"name"`
	MinDepthM float64 `yaml:"min_depth_m"`
	MaxDepthM float64 `yaml:"max_depth_m"`
	MinTempC  float64 `yaml:"min_temp_c"`
	MaxTempC  float64 `yaml:"max_temp_c"`
}

// Validate checks that the profile is usable for classification.
func (s Species) Validate() error {
	if s.Name == "" {
		return eris.New("species: name is required")
	}
	if s.MinDepthM > s.MaxDepthM {
		return eris.Errorf("species %s: min depth %.1f exceeds max depth %.1f",
			s.Name, s.MinDepthM, s.MaxDepthM)
	}
	if s.MinTempC > s.MaxTempC {
		return eris.Errorf("species %s: min temperature %.1f exceeds max temperature %.1f",
			s.Name, s.MinTempC, s.MaxTempC)
	}
	if s.MinDepthM < 0 {
		return eris.Errorf("species %s: negative min depth %.1f", s.Name, s.MinDepthM)
	}
	return nil
}

// speciesFile is the on-disk shape of the species profile file.
type speciesFile struct {
	Species []Species `yaml:"species"`
}

// LoadSpecies reads species profiles from a YAML file, validates each one,
// and returns them sorted by name.
func LoadSpecies(path string) ([]Species, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "species: read %s", path)
	}

	var f speciesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "species: parse %s", path)
	}
	if len(f.Species) == 0 {
		return nil, eris.Errorf("species: no profiles in %s", path)
	}

	seen := make(map[string]bool, len(f.Species))
	for _, s := range f.Species {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, eris.Errorf("species: duplicate profile %q in %s", s.Name, path)
		}
		seen[s.Name] = true
	}

	sort.Slice(f.Species, func(i, j int) bool { return f.Species[i].Name < f.Species[j].Name })
	return f.Species, nil
}

// FindSpecies returns the profile with the given name.
func FindSpecies(profiles []Species, name string) (Species, error) {
	for _, s := range profiles {
		if s.Name == name {
			return s, nil
		}
	}
	return Species{}, eris.Errorf("species: no profile named %q", name)
}
