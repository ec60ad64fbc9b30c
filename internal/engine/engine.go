// Package engine walks a dialogue script: it tracks the current entry,
// evaluates link conditions, and builds the conversation state the
// presentation layer reads.
package engine

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/fernwheel/branchtalk/internal/dialogue"
	"github.com/fernwheel/branchtalk/internal/script"
)

// maxGroupHops bounds pass-through of consecutive group entries so an
// authored cycle of groups cannot spin forever.
const maxGroupHops = 64

// Engine is the conversation controller. It holds the loaded script, the
// condition flags accumulated so far, the current entry, and the picker
// used for random NPC branches.
type Engine struct {
	script  *script.Script
	flags   map[string]bool
	picker  *dialogue.Picker
	current *script.Entry
	links   map[*dialogue.Response]*script.Link
}

// New creates an engine for the given script. src seeds the random picker;
// nil means time-seeded.
func New(sc *script.Script, src rand.Source) *Engine {
	return &Engine{
		script: sc,
		flags:  make(map[string]bool),
		picker: dialogue.NewPicker(src),
	}
}

// Script returns the loaded script.
func (e *Engine) Script() *script.Script { return e.script }

// Current returns the entry the conversation sits at, nil before Start.
func (e *Engine) Current() *script.Entry { return e.current }

// Picker returns the engine's picker, for hosts that manage the anti-repeat
// memory directly.
func (e *Engine) Picker() *dialogue.Picker { return e.picker }

// Start positions the conversation at the script's start entry and returns
// its state. A group entry at the start is stepped through like any other.
func (e *Engine) Start() (*dialogue.State, bool) {
	start, ok := e.script.Entry(e.script.Start)
	if !ok {
		return nil, false
	}
	st, ok := e.moveTo(start)
	if ok && st.IsGroup {
		return e.Advance(st)
	}
	return st, ok
}

// Choose follows a player-chosen response to its destination, applying the
// link's flag effects. A nil response or nil destination ends the
// conversation. Group destinations are stepped through.
func (e *Engine) Choose(r *dialogue.Response) (*dialogue.State, bool) {
	if r == nil {
		return nil, false
	}
	if link, ok := e.links[r]; ok {
		e.apply(link.Sets)
	}
	st, ok := e.moveTo(r.Destination)
	if ok && st.IsGroup {
		return e.Advance(st)
	}
	return st, ok
}

// Advance resolves a state that shows no menu: a PC auto-response fires
// first, then a random NPC branch with repeats avoided, otherwise the
// conversation is over. Group entries encountered along the way are stepped
// through until a speaking entry or the end is reached — except a group
// whose player side needs a menu, which is returned as-is so the host can
// present the choices (the group itself contributes no spoken line).
func (e *Engine) Advance(st *dialogue.State) (*dialogue.State, bool) {
	for hops := 0; hops < maxGroupHops; hops++ {
		if st.IsGroup && st.HasValidPCResponses() && !st.HasPCAutoResponse() {
			return st, true
		}
		next, ok := e.advanceOnce(st)
		if !ok {
			return nil, false
		}
		if !next.IsGroup {
			return next, true
		}
		st = next
	}
	return nil, false
}

func (e *Engine) advanceOnce(st *dialogue.State) (*dialogue.State, bool) {
	switch {
	case st.HasPCAutoResponse():
		return e.chooseDirect(st.PCAutoResponse())
	case st.HasNPCResponse():
		dest := st.RandomNPCEntry(e.picker, true)
		e.applySetsFor(st.Subtitle.Entry, dest)
		return e.moveTo(dest)
	default:
		return nil, false
	}
}

// chooseDirect is Choose without the group pass-through, which Advance
// handles in its own loop.
func (e *Engine) chooseDirect(r *dialogue.Response) (*dialogue.State, bool) {
	if r == nil {
		return nil, false
	}
	if link, ok := e.links[r]; ok {
		e.apply(link.Sets)
	}
	return e.moveTo(r.Destination)
}

// Reset clears the condition flags and the picker's memory so the script
// can be replayed from scratch.
func (e *Engine) Reset() {
	e.flags = make(map[string]bool)
	e.picker.Reset()
	e.current = nil
	e.links = nil
}

// Flags returns the names of the condition flags currently set, sorted.
func (e *Engine) Flags() []string {
	names := make([]string, 0, len(e.flags))
	for name, on := range e.flags {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// moveTo advances to an entry; (nil, false) means the conversation is over.
func (e *Engine) moveTo(entry *script.Entry) (*dialogue.State, bool) {
	if entry == nil {
		return nil, false
	}
	e.current = entry
	return e.stateFor(entry), true
}

// stateFor builds the snapshot for one entry. Links whose destination is
// spoken by a player-side actor become PC responses, the rest NPC
// responses; Enabled comes from the link's Requires against the flag store.
func (e *Engine) stateFor(entry *script.Entry) *dialogue.State {
	st := &dialogue.State{
		Subtitle: dialogue.Subtitle{
			Speaker: e.speakerName(entry),
			Text:    entry.Text,
			Entry:   entry,
		},
		IsGroup: entry.Group,
	}
	e.links = make(map[*dialogue.Response]*script.Link, len(entry.Links))
	for i := range entry.Links {
		link := &entry.Links[i]
		dest, _ := e.script.Entry(link.To)
		r := &dialogue.Response{
			Enabled: e.satisfied(link.Requires),
			Text: dialogue.FormattedText{
				Text:      entryText(dest),
				ForceMenu: link.ForceMenu,
				ForceAuto: link.ForceAuto,
			},
			Destination: dest,
		}
		e.links[r] = link
		if e.script.IsPlayerEntry(dest) {
			st.PCResponses = append(st.PCResponses, r)
		} else {
			st.NPCResponses = append(st.NPCResponses, r)
		}
	}
	return st
}

// applySetsFor applies the flag effects of the link from source to dest,
// for transitions resolved by destination rather than by chosen response.
func (e *Engine) applySetsFor(source, dest *script.Entry) {
	if source == nil || dest == nil {
		return
	}
	for i := range source.Links {
		if source.Links[i].To == dest.ID {
			e.apply(source.Links[i].Sets)
			return
		}
	}
}

func (e *Engine) apply(sets []string) {
	for _, name := range sets {
		if rest, negated := strings.CutPrefix(name, "!"); negated {
			e.flags[rest] = false
			continue
		}
		e.flags[name] = true
	}
}

// satisfied reports whether every condition flag holds. A "!" prefix
// negates a flag.
func (e *Engine) satisfied(requires []string) bool {
	for _, req := range requires {
		want := true
		if rest, negated := strings.CutPrefix(req, "!"); negated {
			want, req = false, rest
		}
		if e.flags[req] != want {
			return false
		}
	}
	return true
}

func (e *Engine) speakerName(entry *script.Entry) string {
	if a, ok := e.script.Actor(entry.Actor); ok {
		return a.Name
	}
	return entry.Actor
}

func entryText(e *script.Entry) string {
	if e == nil {
		return ""
	}
	return e.Text
}
