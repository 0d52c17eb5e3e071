package entities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func makeSlides(n int) []Slide {
	slides := make([]Slide, n)
	for i := range slides {
		slides[i] = Slide{
			ID:    fmt.Sprintf("s%d", i),
			Index: i,
			Title: fmt.Sprintf("Slide %d", i+1),
		}
	}
	return slides
}

func newTestNavigator(t *testing.T, n int) *Navigator {
	t.Helper()
	nav, err := NewNavigator(makeSlides(n))
	require.NoError(t, err)
	return nav
}

func TestNewNavigator(t *testing.T) {
	t.Run("empty deck", func(t *testing.T) {
		nav, err := NewNavigator(nil)
		assert.Nil(t, nav)
		assert.ErrorIs(t, err, ErrEmptyDeck)

		_, err = NewNavigator([]Slide{})
		assert.ErrorIs(t, err, ErrEmptyDeck)
	})

	t.Run("starts at first slide", func(t *testing.T) {
		nav := newTestNavigator(t, 10)

		assert.Equal(t, 0, nav.CurrentIndex())
		assert.Equal(t, 1, nav.Position())
		assert.Equal(t, 10, nav.Len())
		assert.Equal(t, "s0", nav.CurrentSlide().ID)
		assert.InDelta(t, 0.0, nav.Progress(), 1e-9)
		assert.True(t, nav.IsAtStart())
		assert.False(t, nav.IsAtEnd())
	})

	t.Run("owns its slide list", func(t *testing.T) {
		slides := makeSlides(3)
		nav, err := NewNavigator(slides)
		require.NoError(t, err)

		slides[0].ID = "mutated"
		assert.Equal(t, "s0", nav.CurrentSlide().ID)

		out := nav.Slides()
		out[1].ID = "mutated"
		assert.Equal(t, "s1", nav.Slides()[1].ID)
	})
}

func TestNavigator_Walkthrough(t *testing.T) {
	nav := newTestNavigator(t, 10)

	for i := 0; i < 9; i++ {
		assert.True(t, nav.Advance())
	}
	assert.Equal(t, 9, nav.CurrentIndex())
	assert.InDelta(t, 100.0, nav.Progress(), 1e-9)
	assert.True(t, nav.IsAtEnd())

	assert.False(t, nav.Advance(), "advance past the end is a no-op")
	assert.Equal(t, 9, nav.CurrentIndex())

	assert.True(t, nav.Retreat())
	assert.Equal(t, 8, nav.CurrentIndex())
	assert.InDelta(t, 88.89, nav.Progress(), 0.01)

	assert.True(t, nav.JumpTo(3))
	assert.Equal(t, 3, nav.CurrentIndex())
	assert.InDelta(t, 33.33, nav.Progress(), 0.01)

	assert.False(t, nav.JumpTo(15))
	assert.Equal(t, 3, nav.CurrentIndex())
}

func TestNavigator_Boundaries(t *testing.T) {
	t.Run("retreat at start", func(t *testing.T) {
		nav := newTestNavigator(t, 4)
		assert.False(t, nav.Retreat())
		assert.Equal(t, 0, nav.CurrentIndex())
	})

	t.Run("jump targets", func(t *testing.T) {
		tests := []struct {
			target   int
			accepted bool
			want     int
		}{
			{target: 0, accepted: true, want: 0},
			{target: 2, accepted: true, want: 2},
			{target: 3, accepted: true, want: 3},
			{target: 4, accepted: false, want: 1},
			{target: -1, accepted: false, want: 1},
			{target: 1 << 30, accepted: false, want: 1},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("target %d", tt.target), func(t *testing.T) {
				nav := newTestNavigator(t, 4)
				require.True(t, nav.JumpTo(1))

				assert.Equal(t, tt.accepted, nav.JumpTo(tt.target))
				assert.Equal(t, tt.want, nav.CurrentIndex())
			})
		}
	})

	t.Run("single slide", func(t *testing.T) {
		nav := newTestNavigator(t, 1)

		assert.True(t, nav.IsAtStart())
		assert.True(t, nav.IsAtEnd())
		assert.False(t, nav.Advance())
		assert.False(t, nav.Retreat())
		assert.True(t, nav.JumpTo(0))
		assert.False(t, nav.JumpTo(1))
		assert.Equal(t, 0.0, nav.Progress())
	})
}

func TestNavigator_Apply(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		action   NavigationAction
		target   int
		accepted bool
		want     int
	}{
		{name: "next", start: 2, action: ActionNext, accepted: true, want: 3},
		{name: "next at end", start: 4, action: ActionNext, accepted: true, want: 4},
		{name: "prev", start: 2, action: ActionPrev, accepted: true, want: 1},
		{name: "prev at start", start: 0, action: ActionPrev, accepted: true, want: 0},
		{name: "goto", start: 0, action: ActionGoto, target: 3, accepted: true, want: 3},
		{name: "goto out of range", start: 2, action: ActionGoto, target: 9, accepted: false, want: 2},
		{name: "first", start: 3, action: ActionFirst, accepted: true, want: 0},
		{name: "last", start: 1, action: ActionLast, accepted: true, want: 4},
		{name: "unknown", start: 1, action: NavigationAction("shuffle"), accepted: false, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := newTestNavigator(t, 5)
			require.True(t, nav.JumpTo(tt.start))

			assert.Equal(t, tt.accepted, nav.Apply(tt.action, tt.target))
			assert.Equal(t, tt.want, nav.CurrentIndex())
		})
	}
}

func TestNavigator_State(t *testing.T) {
	nav := newTestNavigator(t, 5)
	require.True(t, nav.JumpTo(2))

	state := nav.State()
	assert.Equal(t, NavigationState{
		Index:      2,
		Position:   3,
		Total:      5,
		Progress:   50,
		AtStart:    false,
		AtEnd:      false,
		SlideID:    "s2",
		SlideTitle: "Slide 3",
	}, state)
}

// navigatorMachine drives a Navigator with random operations and checks it
// against a plain integer model after every step.
type navigatorMachine struct {
	nav   *Navigator
	n     int
	model int
}

func (m *navigatorMachine) Advance(t *rapid.T) {
	moved := m.nav.Advance()
	if m.model < m.n-1 {
		m.model++
		if !moved {
			t.Fatal("advance reported no move before the end")
		}
	} else if moved {
		t.Fatal("advance moved past the end")
	}
}

func (m *navigatorMachine) Retreat(t *rapid.T) {
	moved := m.nav.Retreat()
	if m.model > 0 {
		m.model--
		if !moved {
			t.Fatal("retreat reported no move after the start")
		}
	} else if moved {
		t.Fatal("retreat moved before the start")
	}
}

func (m *navigatorMachine) JumpTo(t *rapid.T) {
	target := rapid.IntRange(-3, m.n+3).Draw(t, "target")
	accepted := m.nav.JumpTo(target)
	inRange := target >= 0 && target < m.n
	if accepted != inRange {
		t.Fatalf("JumpTo(%d) accepted=%v with %d slides", target, accepted, m.n)
	}
	if inRange {
		m.model = target
	}
}

func (m *navigatorMachine) Check(t *rapid.T) {
	idx := m.nav.CurrentIndex()
	if idx != m.model {
		t.Fatalf("index %d, model %d", idx, m.model)
	}
	if idx < 0 || idx > m.n-1 {
		t.Fatalf("index %d out of [0, %d]", idx, m.n-1)
	}
	p := m.nav.Progress()
	if p < 0 || p > 100 {
		t.Fatalf("progress %f out of range", p)
	}
	if m.nav.IsAtStart() != (idx == 0) || m.nav.IsAtEnd() != (idx == m.n-1) {
		t.Fatalf("boundary flags disagree with index %d", idx)
	}
}

func TestNavigator_Properties(t *testing.T) {
	t.Run("state machine", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(1, 40).Draw(t, "n")
			nav, err := NewNavigator(makeSlides(n))
			if err != nil {
				t.Fatal(err)
			}
			t.Repeat(rapid.StateMachineActions(&navigatorMachine{nav: nav, n: n}))
		})
	})

	t.Run("progress is monotonic under advance", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(2, 60).Draw(t, "n")
			nav, _ := NewNavigator(makeSlides(n))

			prev := nav.Progress()
			steps := rapid.IntRange(0, n+5).Draw(t, "steps")
			for i := 0; i < steps; i++ {
				nav.Advance()
				p := nav.Progress()
				if p < prev {
					t.Fatalf("progress decreased from %f to %f", prev, p)
				}
				prev = p
			}
		})
	})

	t.Run("retreat undoes advance away from the end", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(2, 60).Draw(t, "n")
			start := rapid.IntRange(0, n-2).Draw(t, "start")
			nav, _ := NewNavigator(makeSlides(n))
			nav.JumpTo(start)

			nav.Advance()
			nav.Retreat()
			if nav.CurrentIndex() != start {
				t.Fatalf("expected %d, got %d", start, nav.CurrentIndex())
			}
		})
	})

	t.Run("progress endpoints", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(2, 200).Draw(t, "n")
			nav, _ := NewNavigator(makeSlides(n))
			if nav.Progress() != 0 {
				t.Fatalf("progress at start: %f", nav.Progress())
			}
			nav.JumpTo(n - 1)
			if nav.Progress() != 100 {
				t.Fatalf("progress at end: %f", nav.Progress())
			}
		})
	})
}
