package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"phonebook/contact"
	"phonebook/errs"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterContactRoutes(g *echo.Group) {
	g.GET("/contacts", s.handleListContacts)
	g.POST("/contacts", s.handleAddContact)
	g.PUT("/contacts/:id", s.handleUpdateContact)
	g.DELETE("/contacts/:id", s.handleDeleteContact)
}

func (s *Server) handleListContacts(c echo.Context) error {
	contacts, err := s.ContactService.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}

	return c.JSON(http.StatusOK, contacts)
}

func (s *Server) handleAddContact(c echo.Context) error {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := s.ContactService.AddContact(c.Request().Context(), req.ToPatch())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateContact(c echo.Context) error {
	id, ok := contactID(c)
	if !ok {
		return contact.ErrContactNotFound
	}

	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := s.ContactService.UpdateContact(c.Request().Context(), id, req.ToPatch())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// handleDeleteContact always answers 204, whether or not the id existed.
func (s *Server) handleDeleteContact(c echo.Context) error {
	if id, ok := contactID(c); ok {
		if err := s.ContactService.DeleteContact(c.Request().Context(), id); err != nil {
			return err
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// contactID parses the :id path parameter. Ids that don't parse match no contact.
func contactID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// bind decodes the request body. Oversized and unsupported bodies keep their
// echo status; anything else that fails to decode is a malformed request.
func bind(c echo.Context, i interface{}) error {
	err := c.Bind(i)
	if err == nil {
		return nil
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return he
		}
	}
	return errs.Errorf(errs.EINVALID, "malformed request body")
}
