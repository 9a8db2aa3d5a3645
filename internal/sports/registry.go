package sports

import (
	"fmt"
	"sort"
	"strings"
)

// Registry manages available sport profiles
type Registry struct {
	profiles map[string]Profile
}

// New creates a registry with every supported sport
func New() *Registry {
	r := &Registry{
		profiles: make(map[string]Profile),
	}

	r.Register(NBA)
	r.Register(NCAAB)
	r.Register(NFL)
	r.Register(MLB)
	r.Register(NHL)
	r.Register(EPL)
	r.Register(MLS)

	return r
}

// Register adds a sport profile to the registry
func (r *Registry) Register(p Profile) {
	r.profiles[p.Key] = p
}

// Get retrieves a sport profile by key
func (r *Registry) Get(sportKey string) (Profile, error) {
	p, ok := r.profiles[sportKey]
	if !ok {
		return Profile{}, fmt.Errorf("sport profile not found: %s", sportKey)
	}
	return p, nil
}

// Lookup returns the profile for a key, or a generic profile when the key is unknown.
// Unknown keys starting with "soccer" are still treated as soccer.
func (r *Registry) Lookup(sportKey string) Profile {
	if p, ok := r.profiles[sportKey]; ok {
		return p
	}
	if strings.HasPrefix(sportKey, "soccer") {
		p := EPL
		p.Key = sportKey
		return p
	}
	p := NBA
	p.Key = sportKey
	return p
}

// Restrict disables every sport not listed. An empty list leaves the registry unchanged.
func (r *Registry) Restrict(keys []string) {
	if len(keys) == 0 {
		return
	}
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[strings.TrimSpace(k)] = true
	}
	for key, p := range r.profiles {
		p.Enabled = allowed[key]
		r.profiles[key] = p
	}
}

// EnabledSports returns all enabled profiles sorted by key
func (r *Registry) EnabledSports() []Profile {
	var enabled []Profile
	for _, p := range r.profiles {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i].Key < enabled[j].Key })
	return enabled
}
