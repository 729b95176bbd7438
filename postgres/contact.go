package postgres

import (
	"context"
	"errors"

	"phonebook/contact"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactModel represents the database model for contacts
type ContactModel struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Phone    string `gorm:"not null"`
	Email    string `gorm:"not null"`
	Address  string `gorm:"not null"`
	Notes    string `gorm:"not null"`
	Image    string `gorm:"not null"`
	Favorite bool   `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

func newContactModel(c contact.Contact) ContactModel {
	return ContactModel{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Email:    c.Email,
		Address:  c.Address,
		Notes:    c.Notes,
		Image:    c.Image,
		Favorite: c.Favorite,
	}
}

func (m ContactModel) contact() contact.Contact {
	return contact.Contact{
		ID:       m.ID,
		Name:     m.Name,
		Phone:    m.Phone,
		Email:    m.Email,
		Address:  m.Address,
		Notes:    m.Notes,
		Image:    m.Image,
		Favorite: m.Favorite,
	}
}

// ContactRepository implements contact.Repository on top of a BIGSERIAL table,
// so ids keep increasing across deletes and restarts.
type ContactRepository struct {
	db *gorm.DB
}

var _ contact.Repository = (*ContactRepository)(nil)

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateContact inserts c and returns it with the id assigned by the database
func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	model := newContactModel(c)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return contact.Contact{}, err
	}
	return model.contact(), nil
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	var models []ContactModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = model.contact()
	}
	return contacts, nil
}

// UpdateContact locks the row, merges p into it and writes every column back.
func (r *ContactRepository) UpdateContact(ctx context.Context, id int64, p contact.Patch) (contact.Contact, error) {
	var updated contact.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model ContactModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.ErrContactNotFound
		} else if err != nil {
			return err
		}

		updated = model.contact().Apply(p)
		merged := newContactModel(updated)
		return tx.Save(&merged).Error
	})
	if err != nil {
		return contact.Contact{}, err
	}
	return updated, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&ContactModel{}, id).Error
}
