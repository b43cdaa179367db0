package nfl

import (
	"fmt"
	"time"

	"github.com/mcdev12/halftimer/go/internal/sports/base"
)

// NFLPlugin implements the SportPlugin interface for the NFL.
type NFLPlugin struct{}

// init registers the NFL plugin with the base registry.
func init() {
	if err := base.RegisterPlugin(&NFLPlugin{}); err != nil {
		panic(fmt.Sprintf("Failed to register NFL plugin: %v", err))
	}
}

func (p *NFLPlugin) Key() string {
	return "nfl"
}

func (p *NFLPlugin) FeedPath() string {
	return "football/nfl"
}

// HalftimeDuration is 12:20, the observed length of an NFL halftime
// broadcast window.
func (p *NFLPlugin) HalftimeDuration() time.Duration {
	return 12*time.Minute + 20*time.Second
}

func (p *NFLPlugin) AbbreviateTeam(fullName string) string {
	if abbr, ok := teamAbbreviations[fullName]; ok {
		return abbr
	}
	return fullName
}

var teamAbbreviations = map[string]string{
	"Arizona Cardinals":    "ARI Cardinals",
	"Atlanta Falcons":      "ATL Falcons",
	"Baltimore Ravens":     "BAL Ravens",
	"Buffalo Bills":        "BUF Bills",
	"Carolina Panthers":    "CAR Panthers",
	"Chicago Bears":        "CHI Bears",
	"Cincinnati Bengals":   "CIN Bengals",
	"Cleveland Browns":     "CLE Browns",
	"Dallas Cowboys":       "DAL Cowboys",
	"Denver Broncos":       "DEN Broncos",
	"Detroit Lions":        "DET Lions",
	"Green Bay Packers":    "GB Packers",
	"Houston Texans":       "HOU Texans",
	"Indianapolis Colts":   "IND Colts",
	"Jacksonville Jaguars": "JAX Jaguars",
	"Kansas City Chiefs":   "KC Chiefs",
	"Las Vegas Raiders":    "LV Raiders",
	"Los Angeles Chargers": "LAC Chargers",
	"Los Angeles Rams":     "LAR Rams",
	"Miami Dolphins":       "MIA Dolphins",
	"Minnesota Vikings":    "MIN Vikings",
	"New England Patriots": "NE Patriots",
	"New Orleans Saints":   "NO Saints",
	"New York Giants":      "NYG Giants",
	"New York Jets":        "NYJ Jets",
	"Philadelphia Eagles":  "PHI Eagles",
	"Pittsburgh Steelers":  "PIT Steelers",
	"San Francisco 49ers":  "SF 49ers",
	"Seattle Seahawks":     "SEA Seahawks",
	"Tampa Bay Buccaneers": "TB Buccaneers",
	"Tennessee Titans":     "TEN Titans",
	"Washington Commanders": "WAS Commanders",
}
