package model

// Participant is a person inside one group. The same person in two groups is
// two unrelated records. Settlement math keys on Name, not ID, so two
// participants sharing a name inside one group collide into one balance.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	At           int64         `json:"date"`
	Participants []Participant `json:"participants"`
}
