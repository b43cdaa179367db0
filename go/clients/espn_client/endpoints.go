package espn_client

const (
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"

	UserAgent = "Mozilla/5.0 (compatible; HalftimerBot/1.0)"
)

// ScoreboardEndpoint returns the scoreboard path for a sport feed path
// such as "football/nfl" or "basketball/nba".
func ScoreboardEndpoint(sportPath string) string {
	return "/" + sportPath + "/scoreboard"
}
