package memory

import (
	"context"
	"slices"
	"sync"

	"phonebook/contact"
)

// ContactRepository keeps contacts in process memory. Contents are lost on restart.
type ContactRepository struct {
	mu       sync.RWMutex
	nextID   int64
	contacts []contact.Contact
}

var _ contact.Repository = (*ContactRepository)(nil)

func NewContactRepository() *ContactRepository {
	return &ContactRepository{nextID: 1}
}

func (r *ContactRepository) AllContacts(_ context.Context) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.contacts), nil
}

// CreateContact stores c under the next id. Ids start at 1 and are never reused.
func (r *ContactRepository) CreateContact(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	r.contacts = append(r.contacts, c)
	return c, nil
}

func (r *ContactRepository) UpdateContact(_ context.Context, id int64, p contact.Patch) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return contact.Contact{}, contact.ErrContactNotFound
	}
	r.contacts[i] = r.contacts[i].Apply(p)
	return r.contacts[i], nil
}

func (r *ContactRepository) DeleteContact(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		r.contacts = slices.Delete(r.contacts, i, i+1)
	}
	return nil
}

func (r *ContactRepository) index(id int64) int {
	return slices.IndexFunc(r.contacts, func(c contact.Contact) bool { return c.ID == id })
}
