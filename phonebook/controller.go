package phonebook

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"phonebook/contact"
	"phonebook/errs"
	"phonebook/pkg/sentry"
)

// User facing warnings.
const (
	msgRequiredFields  = "Name and phone are required!"
	msgLoadFailed      = "Could not load contacts. Is your backend running?"
	msgSaveFailed      = "Could not save contact. Check the backend and the log."
	msgDeleteFailed    = "Could not delete contact. Please try again."
	msgFavoriteFailed  = "Could not update favourite. Please try again."
	msgImageTooLarge   = "Image size must be less than or equal to 1MB."
	msgImageUnreadable = "Could not read the image file."
)

var ErrInvalidState = errs.Errorf(errs.EINVALID, "operation not allowed in the current mode")

// Mode is the state of the editing session.
type Mode int

const (
	Idle Mode = iota
	Editing
	ConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming-delete"
	}
	return "idle"
}

// Notifier shows warnings to the user.
type Notifier interface {
	Warn(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Warn(msg string) { f(msg) }

// Controller is the client side of the phonebook. It caches the collection,
// runs the add/edit/delete session and derives what the list should show.
// State is guarded by mu, which is never held across a service call.
type Controller struct {
	service contact.Service
	notify  Notifier
	log     *slog.Logger

	mu             sync.Mutex
	contacts       []contact.Contact
	favoritesCount int

	mode         Mode
	editID       int64
	editBound    bool
	form         Form
	pendingImage *string
	deleteID     int64

	query         string
	showFavorites bool
}

func NewController(service contact.Service, notify Notifier, log *slog.Logger) *Controller {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{service: service, notify: notify, log: log}
}

// Load fetches the full collection. On failure the cached list is kept.
func (c *Controller) Load(ctx context.Context) error {
	contacts, err := c.service.ListContacts(ctx)
	if err != nil {
		c.warn(msgLoadFailed, err)
		return err
	}

	favorites := 0
	for _, ct := range contacts {
		if ct.Favorite {
			favorites++
		}
	}

	c.mu.Lock()
	c.contacts = contacts
	c.favoritesCount = favorites
	c.mu.Unlock()
	return nil
}

// OpenNew starts an add session with an empty form.
func (c *Controller) OpenNew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetSession()
	c.mode = Editing
}

// OpenEdit starts an edit session bound to the cached contact id.
func (c *Controller) OpenEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ct, ok := c.find(id)
	if !ok {
		return contact.ErrContactNotFound
	}
	c.resetSession()
	c.mode = Editing
	c.editID, c.editBound = id, true
	c.form = formFromContact(ct)
	return nil
}

func (c *Controller) SetForm(f Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// EditingID returns the contact bound to the edit session, if any.
func (c *Controller) EditingID() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editID, c.mode == Editing && c.editBound
}

// Submit validates the form and creates or updates the contact. On success
// the session ends and the list is reloaded; on failure it stays open.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != Editing {
		c.mu.Unlock()
		return ErrInvalidState
	}
	form, id, bound := c.form.trimmed(), c.editID, c.editBound
	p := form.patch()
	switch {
	case c.pendingImage != nil:
		p.Image = c.pendingImage
	case bound:
		if stored, ok := c.find(id); ok {
			p.Image = &stored.Image
		}
	}
	c.mu.Unlock()

	if err := form.Validate(); err != nil {
		c.warn(msgRequiredFields, nil)
		return err
	}

	var err error
	if bound {
		_, err = c.service.UpdateContact(ctx, id, p)
	} else {
		_, err = c.service.AddContact(ctx, p)
	}
	if err != nil {
		c.warn(saveWarning(err), err)
		return err
	}

	c.mu.Lock()
	if c.mode == Editing {
		c.resetSession()
	}
	c.mu.Unlock()

	_ = c.Load(ctx)
	return nil
}

func saveWarning(err error) string {
	if errs.ErrorCode(err) == errs.ETOOLARGE {
		return msgImageTooLarge
	}
	return msgSaveFailed
}

// Cancel closes the open session without saving.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetSession()
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller) RequestDelete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.find(id); !ok {
		return contact.ErrContactNotFound
	}
	c.resetSession()
	c.mode = ConfirmingDelete
	c.deleteID = id
	return nil
}

// PendingDelete returns the contact awaiting confirmation, if any.
func (c *Controller) PendingDelete() (contact.Contact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ConfirmingDelete {
		return contact.Contact{}, false
	}
	return c.find(c.deleteID)
}

// ConfirmDelete deletes the contact bound by RequestDelete.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ConfirmingDelete {
		c.mu.Unlock()
		return ErrInvalidState
	}
	id := c.deleteID
	c.mu.Unlock()

	if err := c.service.DeleteContact(ctx, id); err != nil {
		c.warn(msgDeleteFailed, err)
		return err
	}

	c.mu.Lock()
	if c.mode == ConfirmingDelete && c.deleteID == id {
		c.resetSession()
	}
	c.mu.Unlock()

	_ = c.Load(ctx)
	return nil
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ConfirmingDelete {
		c.resetSession()
	}
}

// ToggleFavorite flips the cached flag and sends the record back. The image
// is left out so the service keeps it and the body stays under the limit.
func (c *Controller) ToggleFavorite(ctx context.Context, id int64) error {
	c.mu.Lock()
	ct, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		return contact.ErrContactNotFound
	}

	ct.Favorite = !ct.Favorite
	p := ct.Fields()
	p.Image = nil
	if _, err := c.service.UpdateContact(ctx, id, p); err != nil {
		c.warn(msgFavoriteFailed, err)
		return err
	}

	_ = c.Load(ctx)
	return nil
}

// Search filters the list by query. An empty query shows the current view again.
func (c *Controller) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
}

func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// ToggleFavoritesView switches between all contacts and favorites. It clears the search.
func (c *Controller) ToggleFavoritesView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showFavorites = !c.showFavorites
	c.query = ""
}

func (c *Controller) resetSession() {
	c.mode = Idle
	c.editID, c.editBound = 0, false
	c.form = Form{}
	c.pendingImage = nil
	c.deleteID = 0
}

func (c *Controller) find(id int64) (contact.Contact, bool) {
	i := slices.IndexFunc(c.contacts, func(ct contact.Contact) bool { return ct.ID == id })
	if i < 0 {
		return contact.Contact{}, false
	}
	return c.contacts[i], true
}

func (c *Controller) warn(msg string, err error) {
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			c.log.Error(msg, "code", appErr.Code, "error", appErr.Message)
		} else {
			c.log.Error(msg, "error", err)
		}
		sentry.WithTags(map[string]string{"component": "phonebook", "code": errs.ErrorCode(err)}).
			WithExtras(map[string]interface{}{"error": err.Error()}).
			Warning(msg)
	} else {
		c.log.Warn(msg)
	}
	c.notify.Warn(msg)
}

// Matches reports whether ct matches the search query. Name, email and
// address compare case-insensitively, phone as typed.
func Matches(ct contact.Contact, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(ct.Name), q) ||
		strings.Contains(ct.Phone, query) ||
		strings.Contains(strings.ToLower(ct.Email), q) ||
		strings.Contains(strings.ToLower(ct.Address), q)
}
