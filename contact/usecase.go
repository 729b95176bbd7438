package contact

import "context"

type Service interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	AddContact(ctx context.Context, p Patch) (Contact, error)
	UpdateContact(ctx context.Context, id int64, p Patch) (Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

// Repository owns the contact collection. Implementations assign strictly
// increasing ids that are never reused, return contacts in insertion order
// and apply patches atomically.
type Repository interface {
	AllContacts(ctx context.Context) ([]Contact, error)
	CreateContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, id int64, p Patch) (Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) ListContacts(ctx context.Context) ([]Contact, error) {
	return uc.r.AllContacts(ctx)
}

// AddContact stores a new contact. Name and phone are not checked here; the
// client validates them before submitting.
func (uc *Usecase) AddContact(ctx context.Context, p Patch) (Contact, error) {
	if p.imageSize() > MaxImageSize {
		return Contact{}, ErrImageTooLarge
	}
	return uc.r.CreateContact(ctx, p.Contact())
}

func (uc *Usecase) UpdateContact(ctx context.Context, id int64, p Patch) (Contact, error) {
	if p.imageSize() > MaxImageSize {
		return Contact{}, ErrImageTooLarge
	}
	return uc.r.UpdateContact(ctx, id, p)
}

// DeleteContact removes the contact if it exists. Deleting an unknown id is not an error.
func (uc *Usecase) DeleteContact(ctx context.Context, id int64) error {
	return uc.r.DeleteContact(ctx, id)
}
