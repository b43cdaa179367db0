package nba

import (
	"fmt"
	"time"

	"github.com/mcdev12/halftimer/go/internal/sports/base"
)

// NBAPlugin implements the SportPlugin interface for the NBA.
type NBAPlugin struct{}

// init registers the NBA plugin with the base registry.
func init() {
	if err := base.RegisterPlugin(&NBAPlugin{}); err != nil {
		panic(fmt.Sprintf("Failed to register NBA plugin: %v", err))
	}
}

func (p *NBAPlugin) Key() string {
	return "nba"
}

func (p *NBAPlugin) FeedPath() string {
	return "basketball/nba"
}

// HalftimeDuration is 14:30, the observed length of an NBA halftime
// broadcast window.
func (p *NBAPlugin) HalftimeDuration() time.Duration {
	return 14*time.Minute + 30*time.Second
}

func (p *NBAPlugin) AbbreviateTeam(fullName string) string {
	if abbr, ok := teamAbbreviations[fullName]; ok {
		return abbr
	}
	return fullName
}

var teamAbbreviations = map[string]string{
	"Atlanta Hawks":          "ATL Hawks",
	"Boston Celtics":         "BOS Celtics",
	"Brooklyn Nets":          "BKN Nets",
	"Charlotte Hornets":      "CHA Hornets",
	"Chicago Bulls":          "CHI Bulls",
	"Cleveland Cavaliers":    "CLE Cavaliers",
	"Dallas Mavericks":       "DAL Mavericks",
	"Denver Nuggets":         "DEN Nuggets",
	"Detroit Pistons":        "DET Pistons",
	"Golden State Warriors":  "GSW Warriors",
	"Houston Rockets":        "HOU Rockets",
	"Indiana Pacers":         "IND Pacers",
	"LA Clippers":            "LAC Clippers",
	"Los Angeles Lakers":     "LAL Lakers",
	"Memphis Grizzlies":      "MEM Grizzlies",
	"Miami Heat":             "MIA Heat",
	"Milwaukee Bucks":        "MIL Bucks",
	"Minnesota Timberwolves": "MIN Timberwolves",
	"New Orleans Pelicans":   "NOP Pelicans",
	"New York Knicks":        "NYK Knicks",
	"Oklahoma City Thunder":  "OKC Thunder",
	"Orlando Magic":          "ORL Magic",
	"Philadelphia 76ers":     "PHI 76ers",
	"Phoenix Suns":           "PHX Suns",
	"Portland Trail Blazers": "POR Blazers",
	"Sacramento Kings":       "SAC Kings",
	"San Antonio Spurs":      "SAS Spurs",
	"Toronto Raptors":        "TOR Raptors",
	"Utah Jazz":              "UTA Jazz",
	"Washington Wizards":     "WAS Wizards",
}
