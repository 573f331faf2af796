package station

// Registry is an immutable, process-wide lookup table of monitoring
// stations. It is built once at startup and safe for unlimited concurrent
// readers; there is no mutation path after construction.
type Registry struct {
	byID    map[string]*Station
	ordered []Station
}

// NewRegistry builds a registry from the given stations. Station ids must be
// unique and location types valid.
func NewRegistry(stations []Station) (*Registry, error) {
	if len(stations) == 0 {
		return nil, ErrNoStations
	}

	byID := make(map[string]*Station, len(stations))
	ordered := make([]Station, len(stations))
	copy(ordered, stations)

	for i := range ordered {
		s := &ordered[i]
		if !s.Type.Valid() {
			return nil, ErrInvalidLocation
		}
		if _, exists := byID[s.ID]; exists {
			return nil, ErrDuplicateStation
		}
		byID[s.ID] = s
	}

	return &Registry{byID: byID, ordered: ordered}, nil
}

// DefaultRegistry builds a registry from the built-in station set.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultStations())
	if err != nil {
		// The built-in set is validated by tests; this cannot happen at runtime.
		panic(err)
	}
	return r
}

// Get returns the station with the given id.
func (r *Registry) Get(id string) (*Station, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, ErrStationNotFound
	}
	cpy := *s
	return &cpy, nil
}

// List returns all stations in configuration order.
func (r *Registry) List() []Station {
	out := make([]Station, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Count returns the number of registered stations.
func (r *Registry) Count() int {
	return len(r.ordered)
}
