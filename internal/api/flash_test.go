package api

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func flashRouter(store *FlashStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/set", func(c *gin.Context) {
		store.Set(c, c.Query("msg"))
		c.Status(http.StatusNoContent)
	})
	r.GET("/pop", func(c *gin.Context) {
		c.String(http.StatusOK, store.Pop(c))
	})
	return r
}

func flashCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == flashCookie {
			return ck
		}
	}
	t.Fatalf("flash cookie not set")
	return nil
}

func TestFlashStore_RoundTrip(t *testing.T) {
	r := flashRouter(NewFlashStore("s3cret"))
	msg := "ERROR: Please fill out all fields before submitting."

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set?msg="+strings.ReplaceAll(msg, " ", "+"), nil))
	ck := flashCookieFrom(t, w)
	if !ck.HttpOnly {
		t.Fatalf("flash cookie should be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != msg {
		t.Fatalf("want %q got %q", msg, w.Body.String())
	}
	if cleared := flashCookieFrom(t, w); cleared.MaxAge >= 0 {
		t.Fatalf("pop should expire the cookie, MaxAge=%d", cleared.MaxAge)
	}
}

func TestFlashStore_RejectsTampering(t *testing.T) {
	store := NewFlashStore("s3cret")
	good := store.encode("hello")
	payload, sig, _ := strings.Cut(good, ".")

	forged := NewFlashStore("other").encode("hello")

	cases := []struct {
		name  string
		value string
	}{
		{name: "altered payload", value: base64.RawURLEncoding.EncodeToString([]byte("hellp")) + "." + sig},
		{name: "other key", value: forged},
		{name: "no signature", value: payload},
		{name: "garbage signature", value: payload + ".!!!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if msg, ok := store.decode(tc.value); ok {
				t.Fatalf("tampered cookie accepted: %q", msg)
			}
		})
	}

	if msg, ok := store.decode(good); !ok || msg != "hello" {
		t.Fatalf("valid cookie rejected")
	}
}

func TestFlashStore_PopWithoutCookie(t *testing.T) {
	r := flashRouter(NewFlashStore("s3cret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pop", nil))
	if w.Body.String() != "" {
		t.Fatalf("expected empty flash, got %q", w.Body.String())
	}
}
