package service

import (
	"math"
	"math/rand/v2"
	"sort"

	"gamedash/api/internal/model"
)

const topCharacters = 5

var roles = []string{"ADC", "Support", "Mid", "Jungle", "Top"}

// RandomRole picks a role label. Upstream match data doesn't carry a
// reliable role so the label is cosmetic
func RandomRole() string {
	return roles[rand.IntN(len(roles))]
}

// CharacterStat aggregates the matches a player played on one character
type CharacterStat struct {
	Name    string `json:"name"`
	Games   int    `json:"games"`
	WinRate int    `json:"winRate"`
	Role    string `json:"role"`
}

// CharacterStats groups matches by character and returns the most played
// ones, most games first. Matches without a character are skipped
func CharacterStats(matches []model.Match, pickRole func() string) []CharacterStat {
	type tally struct{ games, wins int }

	byName := make(map[string]*tally)
	for _, m := range matches {
		if m.Champion == "" {
			continue
		}

		t, ok := byName[m.Champion]
		if !ok {
			t = &tally{}
			byName[m.Champion] = t
		}

		t.games++
		if m.Won() {
			t.wins++
		}
	}

	out := make([]CharacterStat, 0, len(byName))
	for name, t := range byName {
		out = append(out, CharacterStat{
			Name:    name,
			Games:   t.games,
			WinRate: int(math.Round(float64(t.wins) / float64(t.games) * 100)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > topCharacters {
		out = out[:topCharacters]
	}

	for i := range out {
		out[i].Role = pickRole()
	}

	return out
}
