package web

import (
	"net/http"
	"net/url"
	"strconv"
)

const flashCookie = "recordgrid_flash"

// Flash is the one-shot notification shown after a mutation redirect.
type Flash struct {
	Success bool
	Message string
}

func setFlash(w http.ResponseWriter, f Flash) {
	v := url.Values{}
	v.Set("ok", strconv.FormatBool(f.Success))
	v.Set("msg", f.Message)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    v.Encode(),
		Path:     "/",
		MaxAge:   30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the pending flash and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	v, err := url.ParseQuery(c.Value)
	if err != nil || v.Get("msg") == "" {
		return nil
	}
	ok, _ := strconv.ParseBool(v.Get("ok"))
	return &Flash{Success: ok, Message: v.Get("msg")}
}
