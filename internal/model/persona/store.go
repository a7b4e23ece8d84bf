package persona

// Store exposes councilor retrieval for handlers and the orchestrator.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	// Resolve returns the persona for id, falling back to the speaker
	// fragment when the identifier is unknown. The requested id is
	// preserved so transcript authorship reflects what was asked for.
	Resolve(id string) Persona
}

// MemoryStore implements Store with an in-memory slice; the panel is
// fixed at process start.
type MemoryStore struct {
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

// List returns the predefined persona list.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// Resolve implements the unknown-councilor fallback policy.
func (s *MemoryStore) Resolve(id string) Persona {
	if p, ok := s.FindByID(id); ok {
		return p
	}
	fallback, _ := s.FindByID(SpeakerID)
	fallback.ID = id
	return fallback
}
