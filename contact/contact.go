package contact

import (
	"strings"

	"phonebook/errs"
)

// MaxImageSize is the largest image payload a contact may carry, in bytes.
const MaxImageSize = 1 << 20

var (
	ErrInvalidName     = errs.Errorf(errs.EINVALID, "invalid name")
	ErrInvalidPhone    = errs.Errorf(errs.EINVALID, "invalid phone")
	ErrContactNotFound = errs.Errorf(errs.ENOTFOUND, "contact not found")
	ErrImageTooLarge   = errs.Errorf(errs.ETOOLARGE, "image must be at most 1MB")
)

type Contact struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Image    string `json:"image,omitempty"`
	Favorite bool   `json:"favorite"`
}

// Validate reports whether the contact carries the fields a submission requires.
// The service stores whatever it receives; callers that collect user input run this first.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}

	if strings.TrimSpace(c.Phone) == "" {
		return ErrInvalidPhone
	}

	return nil
}

// Fields returns a patch that overwrites every field of a stored contact with c.
func (c Contact) Fields() Patch {
	return Patch{
		Name:     &c.Name,
		Phone:    &c.Phone,
		Email:    &c.Email,
		Address:  &c.Address,
		Notes:    &c.Notes,
		Image:    &c.Image,
		Favorite: &c.Favorite,
	}
}

// Apply returns c with every field set in p overwritten. The ID never changes
// and a nil Image keeps the stored image.
func (c Contact) Apply(p Patch) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.Favorite != nil {
		c.Favorite = *p.Favorite
	}
	return c
}

// Patch is a partial contact. Nil fields are left untouched by Apply.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Image    *string `json:"image,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// Contact returns a new contact built from the fields set in p.
func (p Patch) Contact() Contact {
	return Contact{}.Apply(p)
}

func (p Patch) imageSize() int {
	if p.Image == nil {
		return 0
	}
	return len(*p.Image)
}
