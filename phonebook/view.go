package phonebook

import "phonebook/contact"

type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoContacts
	EmptyNoFavorites
)

// View is what the list should show right now.
type View struct {
	Contacts        []contact.Contact
	Empty           EmptyState
	FavoritesHeader bool
	FavoritesCount  int
	Total           int
	Query           string
	Mode            Mode
}

// View derives the displayed list. A non-empty query searches the full
// collection; otherwise the favorites view, when on, shows favorites only.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		FavoritesCount: c.favoritesCount,
		Total:          len(c.contacts),
		Query:          c.query,
		Mode:           c.mode,
	}

	switch {
	case c.query != "":
		for _, ct := range c.contacts {
			if Matches(ct, c.query) {
				v.Contacts = append(v.Contacts, ct)
			}
		}
	case c.showFavorites:
		v.FavoritesHeader = true
		for _, ct := range c.contacts {
			if ct.Favorite {
				v.Contacts = append(v.Contacts, ct)
			}
		}
	default:
		v.Contacts = append([]contact.Contact(nil), c.contacts...)
	}

	if len(v.Contacts) == 0 {
		v.Empty = EmptyNoContacts
		if v.FavoritesHeader {
			v.Empty = EmptyNoFavorites
		}
	}
	return v
}

// ShowingFavorites reports whether the favorites view is on.
func (c *Controller) ShowingFavorites() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showFavorites
}
