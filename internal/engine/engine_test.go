package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fernwheel/branchtalk/internal/dialogue"
	"github.com/fernwheel/branchtalk/internal/script"
)

const gateYAML = `
title: Gatehouse
start: intro
actors:
  - id: pc
    name: Traveler
    player: true
  - id: warden
    name: Warden
entries:
  - id: intro
    actor: warden
    text: Halt. State your business.
    links:
      - to: ask_name
      - to: ask_pass
        requires: [knows_name]
      - to: small_talk
        requires: ["!bored"]
  - id: ask_name
    actor: pc
    text: Who are you?
    links:
      - to: give_name
  - id: give_name
    actor: warden
    text: Warden of the east gate.
    links:
      - to: intro
        sets: [knows_name]
  - id: ask_pass
    actor: pc
    text: Then let me through, Warden.
    links:
      - to: relent
  - id: small_talk
    actor: pc
    text: Cold night.
    links:
      - to: grunt
  - id: grunt
    actor: warden
    text: Hm.
    links:
      - to: intro
        sets: [bored]
  - id: relent
    actor: warden
    text: Go, then.
`

func mustEngine(t *testing.T, yaml string) *Engine {
	t.Helper()
	sc, err := script.Parse([]byte(yaml))
	require.NoError(t, err)
	return New(sc, rand.NewSource(1))
}

func findResponse(t *testing.T, st *dialogue.State, destID string) *dialogue.Response {
	t.Helper()
	for _, r := range st.PCResponses {
		if r != nil && r.Destination != nil && r.Destination.ID == destID {
			return r
		}
	}
	t.Fatalf("no PC response leading to %q", destID)
	return nil
}

func TestStartBuildsFirstState(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, ok := eng.Start()
	require.True(t, ok)

	require.Equal(t, "Warden", st.Subtitle.Speaker)
	require.Equal(t, "Halt. State your business.", st.Subtitle.Text)
	require.False(t, st.IsGroup)
	require.False(t, st.HasNPCResponse())
	require.Len(t, st.PCResponses, 3)
}

func TestRequiresGatesEnabled(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, _ := eng.Start()

	require.True(t, findResponse(t, st, "ask_name").Enabled)
	require.False(t, findResponse(t, st, "ask_pass").Enabled)
	require.True(t, findResponse(t, st, "small_talk").Enabled)
}

func TestChooseWalksToDestination(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, _ := eng.Start()

	st, ok := eng.Choose(findResponse(t, st, "ask_name"))
	require.True(t, ok)
	require.Equal(t, "Who are you?", st.Subtitle.Text)
	require.True(t, st.HasNPCResponse())
	require.False(t, st.HasPCResponses())
}

func TestSetsApplyOnTraversal(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, _ := eng.Start()

	// ask_name -> give_name -> intro, the last hop setting knows_name.
	st, _ = eng.Choose(findResponse(t, st, "ask_name"))
	st, _ = eng.Advance(st) // give_name
	require.Equal(t, "Warden of the east gate.", st.Subtitle.Text)
	st, _ = eng.Advance(st) // back to intro
	require.Equal(t, "Halt. State your business.", st.Subtitle.Text)

	require.Equal(t, []string{"knows_name"}, eng.Flags())
	require.True(t, findResponse(t, st, "ask_pass").Enabled)
}

func TestNegatedRequiresDisableAfterFlagSet(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, _ := eng.Start()

	st, _ = eng.Choose(findResponse(t, st, "small_talk"))
	st, _ = eng.Advance(st) // grunt
	st, _ = eng.Advance(st) // back to intro, bored now set

	require.False(t, findResponse(t, st, "small_talk").Enabled)
}

func TestConversationEndsAtLeaf(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, _ := eng.Start()

	st, _ = eng.Choose(findResponse(t, st, "ask_name"))
	st, _ = eng.Advance(st)
	st, _ = eng.Advance(st)
	st, _ = eng.Choose(findResponse(t, st, "ask_pass"))
	st, ok := eng.Advance(st) // relent
	require.True(t, ok)
	require.Equal(t, "Go, then.", st.Subtitle.Text)

	next, ok := eng.Advance(st)
	require.False(t, ok)
	require.Nil(t, next)
}

func TestResetClearsFlagsAndReplays(t *testing.T) {
	eng := mustEngine(t, gateYAML)
	st, _ := eng.Start()
	st, _ = eng.Choose(findResponse(t, st, "ask_name"))
	st, _ = eng.Advance(st)
	_, _ = eng.Advance(st)
	require.NotEmpty(t, eng.Flags())

	eng.Reset()
	require.Empty(t, eng.Flags())
	require.Nil(t, eng.Current())

	st, ok := eng.Start()
	require.True(t, ok)
	require.False(t, findResponse(t, st, "ask_pass").Enabled)
}

const autoYAML = `
title: Auto
start: line
actors:
  - id: pc
    name: You
    player: true
  - id: npc
    name: Keeper
entries:
  - id: line
    actor: npc
    text: Take it.
    links:
      - to: accept
  - id: accept
    actor: pc
    text: Thank you.
    links:
      - to: done
  - id: done
    actor: npc
    text: Good.
`

func TestSinglePCOptionAutoAdvances(t *testing.T) {
	eng := mustEngine(t, autoYAML)
	st, _ := eng.Start()
	require.True(t, st.HasPCAutoResponse())

	st, ok := eng.Advance(st)
	require.True(t, ok)
	require.Equal(t, "Thank you.", st.Subtitle.Text)
}

const forceYAML = `
title: Force
start: line
actors:
  - id: pc
    name: You
    player: true
  - id: npc
    name: Keeper
entries:
  - id: line
    actor: npc
    text: Well?
    links:
      - to: stay
      - to: leave
        force_auto: true
  - id: stay
    actor: pc
    text: I will stay.
  - id: leave
    actor: pc
    text: I must go.
`

func TestForceAutoResponseSkipsMenu(t *testing.T) {
	eng := mustEngine(t, forceYAML)
	st, _ := eng.Start()

	require.True(t, st.HasPCAutoResponse())
	require.True(t, st.HasForceAutoResponse())

	st, ok := eng.Advance(st)
	require.True(t, ok)
	require.Equal(t, "I must go.", st.Subtitle.Text)
}

const forceMenuYAML = `
title: ForceMenu
start: line
actors:
  - id: pc
    name: You
    player: true
  - id: npc
    name: Keeper
entries:
  - id: line
    actor: npc
    text: Before you climb —
    links:
      - to: luck
        force_menu: true
  - id: luck
    actor: pc
    text: Wish me luck.
`

func TestForceMenuShowsLoneOption(t *testing.T) {
	eng := mustEngine(t, forceMenuYAML)
	st, _ := eng.Start()

	require.Len(t, st.PCResponses, 1)
	require.False(t, st.HasPCAutoResponse())
}

const groupYAML = `
title: Group
start: fanout
actors:
  - id: npc
    name: Keeper
entries:
  - id: fanout
    group: true
    links:
      - to: hello_a
      - to: hello_b
  - id: hello_a
    actor: npc
    text: Morning.
  - id: hello_b
    actor: npc
    text: Evening.
`

func TestGroupEntriesArePassedThrough(t *testing.T) {
	eng := mustEngine(t, groupYAML)
	st, ok := eng.Start()

	require.True(t, ok)
	require.False(t, st.IsGroup)
	require.Contains(t, []string{"Morning.", "Evening."}, st.Subtitle.Text)
}

const groupMenuYAML = `
title: GroupMenu
start: fanout
actors:
  - id: pc
    name: You
    player: true
  - id: npc
    name: Keeper
entries:
  - id: fanout
    group: true
    links:
      - to: greet
      - to: snub
  - id: greet
    actor: pc
    text: Good evening.
    links:
      - to: reply
  - id: snub
    actor: pc
    text: Hm.
  - id: reply
    actor: npc
    text: Evening to you.
`

func TestGroupFanoutToPlayerChoicesShowsMenu(t *testing.T) {
	eng := mustEngine(t, groupMenuYAML)
	st, ok := eng.Start()
	require.True(t, ok)

	require.True(t, st.IsGroup)
	require.Len(t, st.PCResponses, 2)
	require.True(t, st.HasValidPCResponses())
	require.False(t, st.HasPCAutoResponse())

	st, ok = eng.Choose(findResponse(t, st, "greet"))
	require.True(t, ok)
	require.Equal(t, "Good evening.", st.Subtitle.Text)
}

func TestGroupFanoutAvoidsImmediateRepeat(t *testing.T) {
	eng := mustEngine(t, groupYAML)

	prev := ""
	for i := 0; i < 10; i++ {
		st, ok := eng.Start()
		require.True(t, ok)
		if prev != "" {
			require.NotEqual(t, prev, st.Subtitle.Text)
		}
		prev = st.Subtitle.Text
	}
}
