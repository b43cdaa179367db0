package espn_client

// Raw scoreboard payload shapes as returned by the ESPN site API. Only
// the fields the service reads are declared; everything else is
// ignored by the JSON decoder.

type Scoreboard struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Date         string        `json:"date"`
	Status       EventStatus   `json:"status"`
	Competitions []Competition `json:"competitions"`
}

type EventStatus struct {
	Type StatusType `json:"type"`
}

type StatusType struct {
	Description string `json:"description"`
	State       string `json:"state"`
	Detail      string `json:"detail"`
	ShortDetail string `json:"shortDetail"`
}

type Competition struct {
	ID          string       `json:"id"`
	Competitors []Competitor `json:"competitors"`
}

type Competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     Team   `json:"team"`
}

type Team struct {
	DisplayName string `json:"displayName"`
	Logo        string `json:"logo"`
}
