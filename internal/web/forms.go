package web

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"bookadmin/internal/entity"
)

// Form parsers turn a submitted form into a draft. Conversion failures are
// reported as field errors so the draft can still be re-rendered.

func formValue(form url.Values, key string) string {
	return strings.TrimSpace(form.Get(key))
}

func formID(form url.Values, key string, errs *[]FieldError) entity.ID {
	id, err := entity.ParseID(formValue(form, key))
	if err != nil {
		*errs = append(*errs, fieldInvalid(key))
	}
	return id
}

func parseAuthorForm(form url.Values) (entity.AuthorInput, []FieldError) {
	return entity.AuthorInput{
		Name:        formValue(form, "nombre"),
		Nationality: formValue(form, "nacionalidad"),
		BornOn:      formValue(form, "fecha_nacimiento"),
	}, nil
}

func parsePublisherForm(form url.Values) (entity.PublisherInput, []FieldError) {
	return entity.PublisherInput{
		Name:    formValue(form, "nombre"),
		Country: formValue(form, "pais"),
	}, nil
}

func parseBookForm(form url.Values) (entity.BookInput, []FieldError) {
	var errs []FieldError
	in := entity.BookInput{
		Title:       formValue(form, "titulo"),
		PublishedOn: formValue(form, "fecha_publicacion"),
		Authors:     []entity.ID{},
	}
	if pid := formID(form, "editorial_id", &errs); pid != 0 {
		in.PublisherID = &pid
	}
	seen := map[entity.ID]bool{}
	for _, raw := range form["autores"] {
		id, err := entity.ParseID(raw)
		if err != nil {
			errs = append(errs, fieldInvalid("autores"))
			continue
		}
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		in.Authors = append(in.Authors, id)
	}
	return in, errs
}

func parseSaleForm(form url.Values) (entity.SaleInput, []FieldError) {
	var errs []FieldError
	in := entity.SaleInput{
		BookID:    formID(form, "libro_id", &errs),
		Bookstore: formValue(form, "libreria_nombre"),
		Price:     json.Number(formValue(form, "precio")),
		SoldOn:    formValue(form, "fecha_venta"),
	}
	if raw := formValue(form, "cantidad"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fieldInvalid("cantidad"))
		}
		in.Quantity = n
	}
	return in, errs
}

func parseAuthorBookForm(form url.Values) (entity.AuthorBook, []FieldError) {
	var errs []FieldError
	row := entity.AuthorBook{
		AuthorID: formID(form, "autor_id", &errs),
		BookID:   formID(form, "libro_id", &errs),
	}
	return row, errs
}

func parseUserForm(form url.Values) entity.UserInput {
	return entity.UserInput{
		Username: formValue(form, "username"),
		Password: form.Get("password"),
		IsAdmin:  checkbox(form, "isAdmin"),
	}
}

func checkbox(form url.Values, key string) bool {
	switch strings.ToLower(form.Get(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
