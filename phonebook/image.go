package phonebook

import (
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"phonebook/contact"
)

// EncodeImage turns raw file bytes into a data URL. The media type is sniffed
// from the content.
func EncodeImage(data []byte) string {
	mediaType, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return "data:" + strings.TrimSpace(mediaType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// AttachImage sets the pending image for the open form. Files over 1MB are
// rejected and clear any pending image.
func (c *Controller) AttachImage(data []byte) error {
	if len(data) > contact.MaxImageSize {
		return c.rejectImage()
	}

	image := EncodeImage(data)
	c.mu.Lock()
	c.pendingImage = &image
	c.mu.Unlock()
	return nil
}

// SelectImageFile attaches the file at path. The size is checked before the
// file is read.
func (c *Controller) SelectImageFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		c.warn(msgImageUnreadable, err)
		return err
	}
	if info.Size() > contact.MaxImageSize {
		return c.rejectImage()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.warn(msgImageUnreadable, err)
		return err
	}
	return c.AttachImage(data)
}

func (c *Controller) rejectImage() error {
	c.mu.Lock()
	c.pendingImage = nil
	c.mu.Unlock()
	c.warn(msgImageTooLarge, nil)
	return contact.ErrImageTooLarge
}

// HasPendingImage reports whether a new image waits to be submitted.
func (c *Controller) HasPendingImage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingImage != nil
}
