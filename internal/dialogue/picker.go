package dialogue

import (
	"math/rand"
	"sync"
	"time"

	"github.com/fernwheel/branchtalk/internal/script"
)

// Picker owns the randomness and the anti-repeat memory used when the NPC
// side of a conversation branches. The memory maps a branching entry to the
// destination chosen the last time that entry's responses were picked from,
// so a looping conversation does not play the same branch twice in a row.
//
// One Picker serves one conversation session. The host clears it with Reset
// when the script universe changes, so stale entries cannot outlive the
// graph they point into.
type Picker struct {
	mu   sync.Mutex
	rand *rand.Rand
	last map[*script.Entry]*script.Entry
}

// NewPicker returns a Picker drawing from src. A nil src means time-seeded.
func NewPicker(src rand.Source) *Picker {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Picker{rand: rand.New(src)}
}

// Reset forgets every recorded pick. The next selection for any entry
// behaves like a first visit.
func (p *Picker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = nil
}

// RandomNPCEntry picks the destination of one NPC response uniformly at
// random, or nil when there are none. With noDuplicate set, the pick avoids
// the destination recorded for the subtitle's originating entry on the
// previous call; when every response leads back to that same destination
// the repeat is unavoidable and it is returned as-is, without recording a
// new pick. A response without a destination stays in the candidate pool
// and yields a nil pick. p must not be nil.
func (s *State) RandomNPCEntry(p *Picker, noDuplicate bool) *script.Entry {
	if !s.HasNPCResponse() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !noDuplicate {
		return destOf(s.NPCResponses[p.rand.Intn(len(s.NPCResponses))])
	}

	source := s.Subtitle.Entry
	lastDest, seen := p.last[source]
	if !seen {
		dest := destOf(s.NPCResponses[p.rand.Intn(len(s.NPCResponses))])
		p.record(source, dest)
		return dest
	}

	var fresh []*Response
	for _, r := range s.NPCResponses {
		if destOf(r) != lastDest {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		return lastDest
	}
	dest := destOf(fresh[p.rand.Intn(len(fresh))])
	p.record(source, dest)
	return dest
}

func (p *Picker) record(source, dest *script.Entry) {
	if p.last == nil {
		p.last = make(map[*script.Entry]*script.Entry)
	}
	p.last[source] = dest
}

func destOf(r *Response) *script.Entry {
	if r == nil {
		return nil
	}
	return r.Destination
}
