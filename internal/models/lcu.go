package models

import "fmt"

// AuthContext describes how to reach the locally running game client.
//
// An empty BaseURL means the client is not connected.
type AuthContext struct {
	BaseURL           string `json:"baseUrl"`
	Password          string `json:"-"`
	IsAlternateRegion bool   `json:"isAlternateRegion"`
	InstallDir        string `json:"installDir"`
	PID               int    `json:"pid"`
	Port              int    `json:"port"`
}

// Connected reports whether the context points at a client.
func (a AuthContext) Connected() bool {
	return a.BaseURL != ""
}

// Host returns the host:port portion used for websocket and icon URLs.
func (a AuthContext) Host() string {
	return fmt.Sprintf("127.0.0.1:%d", a.Port)
}

// Perk is a single rune from the client's perk catalog.
type Perk struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IconPath  string `json:"iconPath"`
	ShortDesc string `json:"shortDesc,omitempty"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// RuneStyle is a rune tree (Precision, Domination, ...).
type RuneStyle struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IconPath string `json:"iconPath"`
	Tooltip  string `json:"tooltip,omitempty"`
}

// Summoner is the account currently logged into the client.
type Summoner struct {
	SummonerID  int64  `json:"summonerId"`
	AccountID   int64  `json:"accountId"`
	DisplayName string `json:"displayName"`
	GameName    string `json:"gameName"`
	TagLine     string `json:"tagLine"`
	PUUID       string `json:"puuid"`
}

// Champion is an entry of the summoner's champion inventory.
type Champion struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Alias              string `json:"alias"`
	Title              string `json:"title"`
	SquarePortraitPath string `json:"squarePortraitPath"`
	Active             bool   `json:"active"`
}

// RunePage is a page as stored by the client.
type RunePage struct {
	ID              int64   `json:"id,omitempty"`
	Name            string  `json:"name"`
	PrimaryStyleID  int64   `json:"primaryStyleId"`
	SubStyleID      int64   `json:"subStyleId"`
	SelectedPerkIDs []int64 `json:"selectedPerkIds"`
	Current         bool    `json:"current"`
	IsDeletable     bool    `json:"isDeletable,omitempty"`
	IsEditable      bool    `json:"isEditable,omitempty"`
}

// FindChampion returns the champion with the given id.
func FindChampion(champions []Champion, id int64) (Champion, bool) {
	for _, c := range champions {
		if c.ID == id {
			return c, true
		}
	}
	return Champion{}, false
}

// FindPerk returns the perk with the given id.
func FindPerk(perks []Perk, id int64) (Perk, bool) {
	for _, p := range perks {
		if p.ID == id {
			return p, true
		}
	}
	return Perk{}, false
}

// FindStyle returns the rune style with the given id.
func FindStyle(styles []RuneStyle, id int64) (RuneStyle, bool) {
	for _, s := range styles {
		if s.ID == id {
			return s, true
		}
	}
	return RuneStyle{}, false
}
