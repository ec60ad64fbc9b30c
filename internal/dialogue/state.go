// Package dialogue models the current position in a branching conversation:
// the line being spoken plus the candidate follow-up lines offered to each
// side, and how those candidates resolve when the next line is chosen
// automatically instead of from a menu.
package dialogue

import (
	"github.com/fernwheel/branchtalk/internal/script"
)

// Subtitle is the line currently being spoken. The queries in this package
// only ever look at Entry, the node the line originated from; Speaker and
// Text exist for the presentation layer.
type Subtitle struct {
	Speaker string
	Text    string
	Entry   *script.Entry
}

// FormattedText carries the rendered text of a response along with the two
// authored markers that steer menu presentation.
type FormattedText struct {
	Text      string
	ForceMenu bool
	ForceAuto bool
}

// Response is one candidate outgoing edge from the current entry. Enabled is
// precomputed by the controller from the edge's conditions; this package
// never evaluates conditions itself.
type Response struct {
	Enabled     bool
	Text        FormattedText
	Destination *script.Entry
}

// State is a snapshot of where a conversation stands: the active line plus
// the responses offered on each side. The controller builds one per entry
// transition and treats it as read-only afterwards. A nil response slice is
// the same as an empty one everywhere.
//
// A well-formed state usually has responses on one side only, but nothing
// here assumes that; each side's queries ignore the other side entirely.
type State struct {
	Subtitle     Subtitle
	NPCResponses []*Response
	PCResponses  []*Response
	IsGroup      bool
}

// HasNPCResponse reports whether the NPC side offers at least one response.
func (s *State) HasNPCResponse() bool { return len(s.NPCResponses) > 0 }

// HasPCResponses reports whether the player side offers at least one response.
func (s *State) HasPCResponses() bool { return len(s.PCResponses) > 0 }

// HasAnyResponses reports whether either side offers a response.
func (s *State) HasAnyResponses() bool { return s.HasNPCResponse() || s.HasPCResponses() }

// FirstNPCResponse returns the first NPC response, or nil if there are none.
func (s *State) FirstNPCResponse() *Response {
	if !s.HasNPCResponse() {
		return nil
	}
	return s.NPCResponses[0]
}

// HasValidNPCResponse reports whether at least one NPC response is present
// and enabled.
func (s *State) HasValidNPCResponse() bool { return hasEnabled(s.NPCResponses) }

// HasValidPCResponses reports whether at least one PC response is present
// and enabled.
func (s *State) HasValidPCResponses() bool { return hasEnabled(s.PCResponses) }

func hasEnabled(responses []*Response) bool {
	for _, r := range responses {
		if r != nil && r.Enabled {
			return true
		}
	}
	return false
}

// HasForceAutoResponse reports whether some enabled PC response is marked to
// fire without showing a menu.
func (s *State) HasForceAutoResponse() bool {
	for _, r := range s.PCResponses {
		if r != nil && r.Enabled && r.Text.ForceAuto {
			return true
		}
	}
	return false
}

// HasPCAutoResponse reports whether the player side advances without a menu.
// A ForceMenu marker on any response, enabled or not, forces a menu and
// overrides everything else; otherwise the side auto-advances when a
// response demands it or when there is exactly one option.
func (s *State) HasPCAutoResponse() bool {
	if !s.HasPCResponses() {
		return false
	}
	hasAuto := false
	for _, r := range s.PCResponses {
		if r == nil {
			continue
		}
		if r.Text.ForceMenu {
			return false
		}
		if r.Enabled && r.Text.ForceAuto {
			hasAuto = true
		}
	}
	return hasAuto || len(s.PCResponses) == 1
}

// PCAutoResponse returns the response used when auto-advancing: the first
// enabled response marked ForceAuto, or failing that the first response in
// the array whether or not it is enabled. Nil only when there are no PC
// responses. Callers deciding between menu and auto-advance should consult
// HasPCAutoResponse; this accessor does not repeat that classification.
func (s *State) PCAutoResponse() *Response {
	if !s.HasPCResponses() {
		return nil
	}
	for _, r := range s.PCResponses {
		if r != nil && r.Enabled && r.Text.ForceAuto {
			return r
		}
	}
	return s.PCResponses[0]
}
