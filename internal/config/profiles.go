package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

// DefaultProfileName selects domain.DefaultFeatureRequest when no profile file is given.
const DefaultProfileName = "default"

// ProfileFile is the YAML layout of FEATURE_PROFILE_PATH:
//
//	profiles:
//	  default: [speed, width, sw_bz, sw_speed]
//	  kinematic:
//	    sorted: true
//	    features: [speed, final_speed, acceleration]
type ProfileFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile is a named feature request. It accepts either a plain list or a
// mapping with a sorted flag.
type Profile struct {
	Features []string `yaml:"features"`
	Sorted   bool     `yaml:"sorted"`
}

// UnmarshalYAML lets a profile be written as a bare sequence of names.
func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&p.Features)
	}
	type plain Profile
	return node.Decode((*plain)(p))
}

// Request converts the profile to a domain feature request.
func (p Profile) Request() domain.FeatureRequest {
	req := domain.FeatureRequest(p.Features)
	if p.Sorted {
		return req.Sorted()
	}
	return req
}

// LoadProfiles reads and validates a feature profile file.
func LoadProfiles(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature profiles: %w", err)
	}

	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse feature profiles: %w", err)
	}
	if len(pf.Profiles) == 0 {
		return nil, errors.New("feature profiles: no profiles defined")
	}

	for name, p := range pf.Profiles {
		if len(p.Features) == 0 {
			return nil, fmt.Errorf("feature profile %q: no features", name)
		}
		for _, f := range p.Features {
			if !domain.KnownFeature(f) {
				return nil, fmt.Errorf("feature profile %q: unknown feature %q", name, f)
			}
		}
	}
	return &pf, nil
}

// ResolveFeatures returns the feature request named by profile. An empty
// path yields domain.DefaultFeatureRequest for the default profile name.
func ResolveFeatures(path, profile string) (domain.FeatureRequest, error) {
	if path == "" {
		if profile != DefaultProfileName {
			return nil, fmt.Errorf("invalid FEATURE_PROFILE %q: FEATURE_PROFILE_PATH is not set", profile)
		}
		return domain.DefaultFeatureRequest, nil
	}

	pf, err := LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	p, ok := pf.Profiles[profile]
	if !ok {
		return nil, fmt.Errorf("invalid FEATURE_PROFILE %q: not defined in %s", profile, path)
	}
	return p.Request(), nil
}
