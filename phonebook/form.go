package phonebook

import (
	"reflect"
	"strings"

	"phonebook/contact"
	"phonebook/errs"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Form holds the text fields of the add/edit dialog.
type Form struct {
	Name    string `json:"name" validate:"notblank"`
	Phone   string `json:"phone" validate:"notblank"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

var formValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Validate checks the fields a saved contact must carry.
func (f Form) Validate() error {
	if err := formValidator.Struct(f); err != nil {
		return errs.Errorf(errs.EINVALID, "%s", formatValidationError(err))
	}
	return nil
}

func formFromContact(c contact.Contact) Form {
	return Form{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Notes:   c.Notes,
	}
}

// trimmed drops surrounding whitespace from every field.
func (f Form) trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Email:   strings.TrimSpace(f.Email),
		Address: strings.TrimSpace(f.Address),
		Notes:   strings.TrimSpace(f.Notes),
	}
}

func (f Form) patch() contact.Patch {
	return contact.Patch{
		Name:    &f.Name,
		Phone:   &f.Phone,
		Email:   &f.Email,
		Address: &f.Address,
		Notes:   &f.Notes,
	}
}

func formatValidationError(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return "missing " + strings.Join(fields, ", ")
	}
	return "invalid form"
}
