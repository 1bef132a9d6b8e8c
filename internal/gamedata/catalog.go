package gamedata

import (
	"slices"

	"gamedash/api/internal/model"
)

type Region struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Title describes a supported game for the game picker
type Title struct {
	ID            model.GameID `json:"id"`
	Name          string       `json:"name"`
	PlayerIDLabel string       `json:"playerIdLabel"`
	Placeholder   string       `json:"placeholder"`
	DefaultRegion string       `json:"defaultRegion,omitempty"`
	Regions       []Region     `json:"regions"`
}

var Catalog = []Title{
	{
		ID:            model.LeagueOfLegends,
		Name:          "League of Legends",
		PlayerIDLabel: "Summoner Name",
		Placeholder:   "Enter your summoner name",
		DefaultRegion: "na1",
		Regions: []Region{
			{"na1", "North America"},
			{"euw1", "Europe West"},
			{"eun1", "Europe Nordic & East"},
			{"kr", "Korea"},
			{"jp1", "Japan"},
			{"br1", "Brazil"},
			{"la1", "Latin America North"},
			{"la2", "Latin America South"},
			{"oc1", "Oceania"},
			{"tr1", "Turkey"},
			{"ru", "Russia"},
		},
	},
	{
		ID:            model.Steam,
		Name:          "Steam",
		PlayerIDLabel: "Steam ID",
		Placeholder:   "Enter your Steam ID (e.g., 76561198000000000)",
		Regions:       []Region{},
	},
	{
		ID:            model.Valorant,
		Name:          "Valorant",
		PlayerIDLabel: "Riot ID",
		Placeholder:   "Enter your Riot ID (Name#Tag)",
		DefaultRegion: "na",
		Regions: []Region{
			{"na", "North America"},
			{"eu", "Europe"},
			{"ap", "Asia Pacific"},
			{"kr", "Korea"},
		},
	},
	{
		ID:            model.CS2,
		Name:          "Counter-Strike 2",
		PlayerIDLabel: "Steam ID",
		Placeholder:   "Enter your Steam ID",
		Regions:       []Region{},
	},
	{
		ID:            model.Dota2,
		Name:          "Dota 2",
		PlayerIDLabel: "Steam ID",
		Placeholder:   "Enter your Steam ID",
		Regions:       []Region{},
	},
	{
		ID:            model.ClashRoyale,
		Name:          "Clash Royale",
		PlayerIDLabel: "Player Tag",
		Placeholder:   "Enter your player tag (e.g., #2PP)",
		Regions:       []Region{},
	},
}

func Lookup(id model.GameID) (Title, bool) {
	i := slices.IndexFunc(Catalog, func(t Title) bool { return t.ID == id })
	if i < 0 {
		return Title{}, false
	}

	return Catalog[i], true
}

func DefaultRegion(id model.GameID) string {
	t, _ := Lookup(id)
	return t.DefaultRegion
}

// ValidRegion reports whether region can be used for the game. An empty
// region is always valid, games without regions accept nothing else
func ValidRegion(id model.GameID, region string) bool {
	if region == "" {
		return true
	}

	t, ok := Lookup(id)
	if !ok {
		return false
	}

	return slices.ContainsFunc(t.Regions, func(r Region) bool { return r.Value == region })
}
