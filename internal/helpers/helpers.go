package helpers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"todo-list/internal/apierrors"
	"todo-list/internal/scheme"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	indexPath       = "/"
)

func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes only the status text; error details stay in the logs.
func WriteError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// RedirectToIndex answers a successful mutation with 303 See Other to the
// list page and no body.
func RedirectToIndex(w http.ResponseWriter) {
	w.Header().Set("Location", indexPath)
	w.WriteHeader(http.StatusSeeOther)
}

// BindFormField binds a required form-encoded field into dest, coercing it
// to dest's type.
func BindFormField(form url.Values, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, true, name, form, dest); err != nil {
		return apierrors.BadRequest("bind "+name, err)
	}
	return nil
}

func parseForm(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, apierrors.BadRequest("parse form", err)
	}
	return r.PostForm, nil
}

func ParseAddParams(r *http.Request) (scheme.AddParams, error) {
	var p scheme.AddParams
	form, err := parseForm(r)
	if err != nil {
		return p, err
	}
	// text needs no coercion, and the empty string is a valid value
	values, ok := form["text"]
	if !ok {
		return p, apierrors.BadRequest("bind text", apierrors.ErrFieldRequired)
	}
	if len(values) != 1 {
		return p, apierrors.BadRequest("bind text", apierrors.ErrFieldRepeated)
	}
	p.Text = values[0]
	return p, nil
}

func ParseDeleteParams(r *http.Request) (scheme.DeleteParams, error) {
	var p scheme.DeleteParams
	form, err := parseForm(r)
	if err != nil {
		return p, err
	}
	var id uint64
	if err := BindFormField(form, "id", &id); err != nil {
		return p, err
	}
	if id > math.MaxUint32 {
		return p, apierrors.BadRequest("bind id", fmt.Errorf("id %d out of range", id))
	}
	p.Id = uint32(id)
	return p, nil
}
