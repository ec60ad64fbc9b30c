// Package script holds the authored dialogue content: actors, entries, and
// the links between them, loaded from YAML files. A loaded Script owns
// exactly one *Entry per node, so entry pointers double as node identity for
// the rest of the program.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Actor is one conversational participant.
type Actor struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Player bool   `yaml:"player,omitempty"`
}

// Link is one authored edge out of an entry. Requires lists condition flags
// that must hold for the link to be offered as an enabled response; a "!"
// prefix negates a flag. Sets lists flags toggled when the link is taken.
type Link struct {
	To        string   `yaml:"to"`
	ForceMenu bool     `yaml:"force_menu,omitempty"`
	ForceAuto bool     `yaml:"force_auto,omitempty"`
	Requires  []string `yaml:"requires,omitempty"`
	Sets      []string `yaml:"sets,omitempty"`
}

// Entry is one node of the dialogue graph. Group entries carry no spoken
// line; they only fan out to their links.
type Entry struct {
	ID    string `yaml:"id"`
	Actor string `yaml:"actor,omitempty"`
	Text  string `yaml:"text,omitempty"`
	Group bool   `yaml:"group,omitempty"`
	Links []Link `yaml:"links,omitempty"`
}

// Script is a complete dialogue graph.
type Script struct {
	Title   string   `yaml:"title"`
	Start   string   `yaml:"start"`
	Actors  []Actor  `yaml:"actors"`
	Entries []*Entry `yaml:"entries"`

	byID      map[string]*Entry
	actorByID map[string]Actor
}

// Parse decodes and validates a YAML dialogue script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.index(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Script) index() error {
	s.actorByID = make(map[string]Actor, len(s.Actors))
	for _, a := range s.Actors {
		if a.ID == "" {
			return fmt.Errorf("actor with empty id")
		}
		if _, dup := s.actorByID[a.ID]; dup {
			return fmt.Errorf("duplicate actor %q", a.ID)
		}
		s.actorByID[a.ID] = a
	}

	s.byID = make(map[string]*Entry, len(s.Entries))
	for _, e := range s.Entries {
		if e.ID == "" {
			return fmt.Errorf("entry with empty id")
		}
		if _, dup := s.byID[e.ID]; dup {
			return fmt.Errorf("duplicate entry %q", e.ID)
		}
		if e.Actor != "" {
			if _, ok := s.actorByID[e.Actor]; !ok {
				return fmt.Errorf("entry %q: unknown actor %q", e.ID, e.Actor)
			}
		}
		s.byID[e.ID] = e
	}

	if s.Start == "" {
		return fmt.Errorf("script has no start entry")
	}
	if _, ok := s.byID[s.Start]; !ok {
		return fmt.Errorf("start entry %q not found", s.Start)
	}
	for _, e := range s.Entries {
		for _, l := range e.Links {
			if _, ok := s.byID[l.To]; !ok {
				return fmt.Errorf("entry %q: link to unknown entry %q", e.ID, l.To)
			}
		}
	}
	return nil
}

// Entry returns the entry with the given ID.
func (s *Script) Entry(id string) (*Entry, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Actor returns the actor with the given ID.
func (s *Script) Actor(id string) (Actor, bool) {
	a, ok := s.actorByID[id]
	return a, ok
}

// IsPlayerEntry reports whether the entry is spoken by a player-side actor.
func (s *Script) IsPlayerEntry(e *Entry) bool {
	if e == nil {
		return false
	}
	a, ok := s.actorByID[e.Actor]
	return ok && a.Player
}
