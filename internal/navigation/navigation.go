// Package navigation resolves which portal page is active and what the window title is.
package navigation

const DefaultTitle = "Campus Clubs Portal"

const (
	Dashboard = "dashboard"
	Profile   = "profile"
	Events    = "events"
)

type Page struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Pages are listed in nav order.
var Pages = []Page{
	{ID: Dashboard, Label: "Dashboard", Title: DefaultTitle + " - Dashboard", Icon: "home"},
	{ID: Profile, Label: "My Profile", Title: DefaultTitle + " - My Profile", Icon: "user"},
	{ID: Events, Label: "Events", Title: DefaultTitle + " - Events", Icon: "calendar"},
}

// State is the outcome of switching to a page. Active is empty when the page is unknown.
type State struct {
	Active string `json:"active"`
	Title  string `json:"title"`
	Pages  []Page `json:"pages"`
}

func Lookup(pageID string) (Page, bool) {
	for _, p := range Pages {
		if p.ID == pageID {
			return p, true
		}
	}
	return Page{}, false
}

// Resolve switches to pageID. An unknown page leaves no page active and the default title.
func Resolve(pageID string) State {
	state := State{Title: DefaultTitle, Pages: Pages}
	if p, ok := Lookup(pageID); ok {
		state.Active = p.ID
		state.Title = p.Title
	}
	return state
}

// IsActive reports whether the nav link for pageID should carry the active class.
func (s State) IsActive(pageID string) bool {
	return s.Active != "" && s.Active == pageID
}

var shortcuts = map[string]string{
	"1": Dashboard,
	"2": Profile,
	"3": Events,
}

// Shortcut maps Alt+1..3 to a page.
func Shortcut(key string, alt bool) (string, bool) {
	if !alt {
		return "", false
	}
	page, ok := shortcuts[key]
	return page, ok
}
