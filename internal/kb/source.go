package kb

import (
	"fmt"

	"polarkb/internal/diagnostic"
	"polarkb/internal/term"
)

// Source is a single loaded policy file (or an anonymous fragment, when
// Filename is empty).
type Source struct {
	Src      string
	Filename string // empty means no filename
}

// sources is the dedup-aware filename<->content<->id registry (spec 4.1).
type sources struct {
	byID          map[uint64]Source
	loadedFiles   map[string]uint64 // filename -> source id
	loadedContent map[string]string // src -> filename
}

func newSources() *sources {
	return &sources{
		byID:          make(map[uint64]Source),
		loadedFiles:   make(map[string]uint64),
		loadedContent: make(map[string]string),
	}
}

func (s *sources) reset() {
	s.byID = make(map[uint64]Source)
	s.loadedFiles = make(map[string]uint64)
	s.loadedContent = make(map[string]string)
}

// AddSource admits src, assigning it a fresh source id, or returns a
// FileLoading RuntimeError per the three-way overlap check in spec 4.1.
func (kb *KnowledgeBase) AddSource(src Source) (uint64, error) {
	if src.Filename != "" {
		if err := kb.sources.checkOverlap(src); err != nil {
			return 0, err
		}
	}

	id := kb.NewID()
	kb.sources.byID[id] = src
	if src.Filename != "" {
		kb.sources.loadedFiles[src.Filename] = id
		kb.sources.loadedContent[src.Src] = src.Filename
	}
	return id, nil
}

func (s *sources) checkOverlap(src Source) error {
	existingFilename, contentSeen := s.loadedContent[src.Src]
	_, filenameSeen := s.loadedFiles[src.Filename]

	switch {
	case contentSeen && filenameSeen && existingFilename == src.Filename:
		return diagnostic.NewFileLoading(fmt.Sprintf("File %s has already been loaded.", src.Filename))
	case filenameSeen:
		return diagnostic.NewFileLoading(fmt.Sprintf("A file with the name %s, but different contents has already been loaded.", src.Filename))
	case contentSeen:
		return diagnostic.NewFileLoading(fmt.Sprintf("A file with the same contents as %s named %s has already been loaded.", src.Filename, existingFilename))
	default:
		return nil
	}
}

// GetSource returns the Source registered under id.
func (kb *KnowledgeBase) GetSource(id uint64) (Source, bool) {
	s, ok := kb.sources.byID[id]
	return s, ok
}

// GetTermSource resolves the source a term's span points into, if any.
func (kb *KnowledgeBase) GetTermSource(t term.Term) (Source, bool) {
	if t.Span == nil {
		return Source{}, false
	}
	return kb.GetSource(t.Span.SourceID)
}

// GetRuleSource resolves the source a rule's span points into, if any.
func (kb *KnowledgeBase) GetRuleSource(r Rule) (Source, bool) {
	if r.Span == nil {
		return Source{}, false
	}
	return kb.GetSource(r.Span.SourceID)
}
