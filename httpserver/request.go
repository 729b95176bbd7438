package httpserver

import (
	"phonebook/contact"
)

// ContactRequest is the body of create and update calls. Absent or null
// fields stay nil so an update leaves them untouched.
type ContactRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	Image    *string `json:"image"`
	Favorite *bool   `json:"favorite"`
}

func (r ContactRequest) ToPatch() contact.Patch {
	return contact.Patch{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
		Notes:    r.Notes,
		Image:    r.Image,
		Favorite: r.Favorite,
	}
}
