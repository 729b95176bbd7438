package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"phonebook/contact"
	"phonebook/errs"
)

const DefaultTimeout = 30 * time.Second

// Client talks to the contact store service. It satisfies contact.Service, so
// the phonebook controller can't tell it apart from an in-process use case.
type Client struct {
	// BaseURL is the contacts collection, e.g. http://localhost:5000/api/contacts
	BaseURL string

	HTTPClient *http.Client
}

var _ contact.Service = (*Client)(nil)

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	var contacts []contact.Contact
	if err := c.do(ctx, http.MethodGet, c.BaseURL, nil, http.StatusOK, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) AddContact(ctx context.Context, p contact.Patch) (contact.Contact, error) {
	var created contact.Contact
	err := c.do(ctx, http.MethodPost, c.BaseURL, p, http.StatusCreated, &created)
	return created, err
}

func (c *Client) UpdateContact(ctx context.Context, id int64, p contact.Patch) (contact.Contact, error) {
	var updated contact.Contact
	err := c.do(ctx, http.MethodPut, c.contactURL(id), p, http.StatusOK, &updated)
	return updated, err
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.contactURL(id), nil, http.StatusNoContent, nil)
}

func (c *Client) contactURL(id int64) string {
	return fmt.Sprintf("%s/%d", c.BaseURL, id)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.Errorf(errs.EINVALID, "cannot encode request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errs.Errorf(errs.EINVALID, "cannot build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return errs.Errorf(errs.EUNAVAILABLE, "contact service unavailable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return responseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Errorf(errs.EINTERNAL, "cannot decode response: %v", err)
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func responseError(resp *http.Response) error {
	message := http.StatusText(resp.StatusCode)
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Message != "" {
		message = body.Message
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return errs.Errorf(errs.EINVALID, "%s", message)
	case http.StatusNotFound:
		return errs.Errorf(errs.ENOTFOUND, "%s", message)
	case http.StatusRequestEntityTooLarge:
		return errs.Errorf(errs.ETOOLARGE, "%s", message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return errs.Errorf(errs.EUNAVAILABLE, "%s", message)
	default:
		return errs.Errorf(errs.EINTERNAL, "unexpected status %d: %s", resp.StatusCode, message)
	}
}
