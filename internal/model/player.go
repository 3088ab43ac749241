package model

type Player struct {
	ID    string
	Color Team
}

type ClientPlayer struct {
	ID    string `json:"name"`
	Color Team   `json:"color"`
}
