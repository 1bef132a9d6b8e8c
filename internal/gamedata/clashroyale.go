package gamedata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gamedash/api/internal/model"
)

const (
	clashRoyaleURL        = "https://api.clashroyale.com/v1"
	clashRoyaleBattleTime = "20060102T150405.000Z"
	clashRoyaleBattles    = 5
)

// ClashRoyale looks up players by their tag through the official Supercell API
type ClashRoyale struct {
	APIKey  string
	BaseURL string

	client *http.Client
}

func NewClashRoyale(apiKey string, c *http.Client) *ClashRoyale {
	return &ClashRoyale{
		APIKey:  apiKey,
		BaseURL: clashRoyaleURL,
		client:  c,
	}
}

func (c *ClashRoyale) Game() model.GameID {
	return model.ClashRoyale
}

type crCard struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type crPlayer struct {
	Tag          string `json:"tag"`
	Name         string `json:"name"`
	ExpLevel     int    `json:"expLevel"`
	Trophies     int    `json:"trophies"`
	BestTrophies int    `json:"bestTrophies"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	BattleCount  int    `json:"battleCount"`
	Arena        struct {
		Name string `json:"name"`
	} `json:"arena"`
	CurrentFavouriteCard crCard `json:"currentFavouriteCard"`
}

type crBattleSide struct {
	Tag          string   `json:"tag"`
	Crowns       int      `json:"crowns"`
	TrophyChange int      `json:"trophyChange"`
	Cards        []crCard `json:"cards"`
}

type crBattle struct {
	Type       string `json:"type"`
	BattleTime string `json:"battleTime"`
	GameMode   struct {
		Name string `json:"name"`
	} `json:"gameMode"`
	Team     []crBattleSide `json:"team"`
	Opponent []crBattleSide `json:"opponent"`
}

// normalizeTag turns "#abc", "abc" and "ABC" into "ABC"
func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func (c *ClashRoyale) Fetch(ctx context.Context, playerTag, _ string) (*Bundle, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	tag := normalizeTag(playerTag)
	if tag == "" {
		return nil, ErrPlayerNotFound
	}

	header := http.Header{"Authorization": []string{"Bearer " + c.APIKey}}
	path := c.BaseURL + "/players/" + url.PathEscape("#"+tag)

	var p crPlayer
	if err := getJSON(ctx, c.client, path, header, &p); err != nil {
		return nil, fmt.Errorf("failed to load player, %w", err)
	}

	var battles []crBattle
	if err := getJSON(ctx, c.client, path+"/battlelog", header, &battles); err != nil {
		return nil, fmt.Errorf("failed to load battle log, %w", err)
	}

	matches := make([]MatchData, 0, clashRoyaleBattles)
	crowns := 0

	for _, b := range battles {
		if len(matches) == clashRoyaleBattles {
			break
		}

		if len(b.Team) == 0 || len(b.Opponent) == 0 {
			continue
		}

		playedAt, err := time.Parse(clashRoyaleBattleTime, b.BattleTime)
		if err != nil {
			continue
		}

		team, opp := b.Team[0], b.Opponent[0]
		crowns += team.Crowns

		result := model.ResultDefeat
		if team.Crowns > opp.Crowns {
			result = model.ResultVictory
		}

		// The first card of the deck stands in for the character played
		var card string
		if len(team.Cards) > 0 {
			card = team.Cards[0].Name
		}

		matches = append(matches, MatchData{
			// Battles have no ID, the timestamp is unique per player
			MatchID:   tag + "_" + b.BattleTime,
			GameMode:  b.GameMode.Name,
			Result:    result,
			Champion:  card,
			KDA:       fmt.Sprintf("%d/%d/0", team.Crowns, opp.Crowns),
			LPChange:  team.TrophyChange,
			MatchData: b,
			PlayedAt:  playedAt,
		})
	}

	avgCrowns := "0.0"
	if len(matches) > 0 {
		avgCrowns = fmt.Sprintf("%.1f", float64(crowns)/float64(len(matches)))
	}

	level := p.ExpLevel
	rank := p.Arena.Name

	return &Bundle{
		Username:      p.Name,
		Level:         &level,
		Rank:          &rank,
		WinRate:       percent(p.Wins, p.Wins+p.Losses),
		AverageKDA:    avgCrowns,
		TotalPlaytime: 0,
		CurrentLP:     p.Trophies,
		ProfileData:   p,
		StatsData: map[string]any{
			"bestTrophies": p.BestTrophies,
			"battleCount":  p.BattleCount,
			"favourite":    p.CurrentFavouriteCard.Name,
		},
		Matches: matches,
	}, nil
}
