package snapshot

import "github.com/vibe-stack/vcode-agents/internal/domain"

// Document is the JSON-serializable form of the store, keyed by session.
type Document struct {
	Sessions map[string][]*domain.Snapshot `json:"sessions"`
}

// Export captures the store contents as a persistable document.
func (s *Store) Export() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{Sessions: make(map[string][]*domain.Snapshot, len(s.sessions))}
	for sessionID, snaps := range s.sessions {
		copied := make([]*domain.Snapshot, len(snaps))
		for i, snap := range snaps {
			c := *snap
			copied[i] = &c
		}
		doc.Sessions[sessionID] = copied
	}
	return doc
}

// Load replaces the store contents from a document.
func (s *Store) Load(doc *Document) {
	if doc == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string][]*domain.Snapshot, len(doc.Sessions))
	for sessionID, snaps := range doc.Sessions {
		copied := make([]*domain.Snapshot, 0, len(snaps))
		for _, snap := range snaps {
			if snap == nil {
				continue
			}
			c := *snap
			copied = append(copied, &c)
		}
		s.sessions[sessionID] = copied
	}
}
