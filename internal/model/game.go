package model

import (
	"errors"
	"strings"
)

// GameID identifies a supported game title
type GameID string

const (
	LeagueOfLegends GameID = "lol"
	Steam           GameID = "steam"
	Valorant        GameID = "valorant"
	CS2             GameID = "cs2"
	Dota2           GameID = "dota2"
	ClashRoyale     GameID = "clashroyale"
)

// Games lists every supported title in display order
var Games = []GameID{LeagueOfLegends, Steam, Valorant, CS2, Dota2, ClashRoyale}

var ErrUnknownGame = errors.New("unknown game")

func ParseGameID(s string) (GameID, error) {
	id := GameID(strings.ToLower(strings.TrimSpace(s)))
	for _, g := range Games {
		if g == id {
			return g, nil
		}
	}

	return "", ErrUnknownGame
}

func (g GameID) String() string {
	return string(g)
}
