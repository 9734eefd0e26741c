package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "stockplot_flash"

// FlashStore carries one-shot messages across the redirect after a failed
// form submission. The message lives in a cookie signed with HMAC-SHA256;
// cookies whose signature does not verify are dropped.
type FlashStore struct {
	key []byte
}

// NewFlashStore returns a store signing cookies with secret.
func NewFlashStore(secret string) *FlashStore {
	return &FlashStore{key: []byte(secret)}
}

// Set queues msg for the next page load.
func (f *FlashStore) Set(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, f.encode(msg), 0, "/", "", false, true)
}

// Pop returns the pending message, if any, and clears it.
func (f *FlashStore) Pop(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	msg, ok := f.decode(raw)
	if !ok {
		return ""
	}
	return msg
}

func (f *FlashStore) encode(msg string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(msg))
	return payload + "." + base64.RawURLEncoding.EncodeToString(f.sign(payload))
}

func (f *FlashStore) decode(raw string) (string, bool) {
	payload, sig, found := strings.Cut(raw, ".")
	if !found {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, f.sign(payload)) {
		return "", false
	}
	msg, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	return string(msg), true
}

func (f *FlashStore) sign(payload string) []byte {
	m := hmac.New(sha256.New, f.key)
	m.Write([]byte(payload))
	return m.Sum(nil)
}
