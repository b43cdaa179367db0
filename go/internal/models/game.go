package models

// GameState defines the coarse state reported by the upstream feed.
type GameState string

const (
	GameStatePre  GameState = "pre"
	GameStateIn   GameState = "in"
	GameStatePost GameState = "post"
)

// StatusHalftime is the feed status description for a game at halftime.
const StatusHalftime = "Halftime"

// GameStatus holds the feed-reported status of a game.
type GameStatus struct {
	Description string    `json:"description"`
	State       GameState `json:"state"`
	Detail      string    `json:"detail,omitempty"`
	ShortDetail string    `json:"short_detail,omitempty"`
}

// TeamSide is one competitor in a game.
type TeamSide struct {
	DisplayName string `json:"display_name"`
	Logo        string `json:"logo"`
	Score       string `json:"score"`
}

// Game is the normalized per-game snapshot derived from the feed.
type Game struct {
	ID        string     `json:"id"`
	SportKey  string     `json:"sport_key"`
	Name      string     `json:"name"`
	ShortName string     `json:"short_name"`
	Date      string     `json:"date"`
	Status    GameStatus `json:"status"`
	Home      TeamSide   `json:"home"`
	Away      TeamSide   `json:"away"`
}

// IsHalftime reports whether the feed currently describes the game as
// being at halftime.
func (g Game) IsHalftime() bool {
	return g.Status.Description == StatusHalftime
}
