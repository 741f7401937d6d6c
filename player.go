package main

// Entity is one player avatar's live state as last told to us by the server.
type Entity struct {
	ID     string
	X, Y   float64
	Facing Direction
	Frame  int // animation frame index within the facing's frame list
	Name   string
	Avatar string // avatar definition id; many entities may share one
	Moving bool
}

// AvatarDef maps each direction to an ordered list of frame image sources
// (URLs or data: URIs). Definitions are immutable once received.
type AvatarDef struct {
	ID     string
	Frames map[Direction][]string
}

// entityStore owns every known entity. Updates use replace-whole-record
// semantics: an upsert overwrites all fields, never merges. All access
// happens on the update tick, so there is no lock.
type entityStore struct {
	entities map[string]*Entity
}

func newEntityStore() *entityStore {
	return &entityStore{entities: make(map[string]*Entity)}
}

// upsert inserts or fully replaces the entity with e's id.
func (s *entityStore) upsert(e Entity) {
	s.entities[e.ID] = &e
}

// remove deletes the entity. Unknown ids are a silent no-op; the entity may
// have already left.
func (s *entityStore) remove(id string) {
	delete(s.entities, id)
}

func (s *entityStore) get(id string) (Entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// forEach visits every entity in map order. Callers may mutate the visited
// entity in place but must not add or remove entries.
func (s *entityStore) forEach(visit func(*Entity)) {
	for _, e := range s.entities {
		visit(e)
	}
}

// replaceAll swaps the store contents for the given set, as on a join
// result.
func (s *entityStore) replaceAll(list []Entity) {
	s.entities = make(map[string]*Entity, len(list))
	for _, e := range list {
		s.upsert(e)
	}
}

func (s *entityStore) count() int { return len(s.entities) }
