package models

type Team struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

type StandingsRow struct {
	Rank   int     `json:"rank"`
	Team   string  `json:"team"`
	Rating float64 `json:"rating"`
	Points int     `json:"points"`
	Played int     `json:"played"`
	Weak   bool    `json:"weak"`
}

type GroupStanding struct {
	Group int            `json:"group"`
	Rows  []StandingsRow `json:"rows"`
}
