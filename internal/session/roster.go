package session

import (
	"math/rand"
	"slices"

	"quizlive/internal/domain"
)

// paletteTokens mirrors the badge colors the web client assigns to players.
var paletteTokens = []string{
	"tomato", "crimson", "pink", "plum", "purple", "violet", "indigo",
	"blue", "cyan", "teal", "green", "grass", "lime", "yellow", "orange",
	"brown", "gold", "bronze", "mauve", "slate", "sage", "olive", "sand",
}

// Roster tracks the participants of the live game from this client's
// perspective and owns the connection-scoped color pool. Not safe for
// concurrent use; the Manager serializes access.
type Roster struct {
	participants []domain.Participant
	pool         []string
}

func NewRoster() *Roster {
	r := &Roster{}
	r.Reset()
	return r
}

// Join adds a participant with a color drawn from the pool. A name already
// present is a no-op. Reports whether the roster changed.
func (r *Roster) Join(name string) bool {
	if r.has(name) {
		return false
	}
	r.participants = append(r.participants, domain.Participant{
		Name:  name,
		Color: r.nextColor(),
	})
	return true
}

// Leave removes the named participant and returns their color to the pool.
// Unknown names are a no-op.
func (r *Roster) Leave(name string) bool {
	for i, p := range r.participants {
		if p.Name == name {
			r.participants = slices.Delete(r.participants, i, i+1)
			r.release(p.Color)
			return true
		}
	}
	return false
}

// Replace discards the roster and rebuilds it from names in order, with a
// fresh pool. Existing color assignments are not preserved even for names
// that were already present.
func (r *Roster) Replace(names []string) {
	r.Reset()
	for _, name := range names {
		r.Join(name)
	}
}

// Reset clears the roster and refills the color pool.
func (r *Roster) Reset() {
	r.participants = nil
	r.pool = slices.Clone(paletteTokens)
}

// Participants returns a copy of the roster in join order.
func (r *Roster) Participants() []domain.Participant {
	return slices.Clone(r.participants)
}

// ColorOf looks up the color assigned to name.
func (r *Roster) ColorOf(name string) (string, bool) {
	for _, p := range r.participants {
		if p.Name == name {
			return p.Color, true
		}
	}
	return "", false
}

func (r *Roster) Len() int {
	return len(r.participants)
}

func (r *Roster) has(name string) bool {
	_, ok := r.ColorOf(name)
	return ok
}

// nextColor picks a random unused token, removing it from the pool. Once the
// pool is exhausted colors are drawn uniformly from the full palette, so
// duplicates become possible.
func (r *Roster) nextColor() string {
	if len(r.pool) == 0 {
		return paletteTokens[rand.Intn(len(paletteTokens))]
	}
	i := rand.Intn(len(r.pool))
	color := r.pool[i]
	r.pool = slices.Delete(r.pool, i, i+1)
	return color
}

// release puts a palette token back in the pool, unless another participant
// still holds it (possible after exhaustion).
func (r *Roster) release(color string) {
	if !slices.Contains(paletteTokens, color) || slices.Contains(r.pool, color) {
		return
	}
	for _, p := range r.participants {
		if p.Color == color {
			return
		}
	}
	r.pool = append(r.pool, color)
}
