package entity

import (
	"bytes"
	"encoding/json"
)

// Author is a writer as served by GET /autores.
type Author struct {
	ID          ID     `json:"autor_id"`
	Name        string `json:"nombre"`
	Nationality string `json:"nacionalidad"`
	BornOn      string `json:"fecha_nacimiento"`
}

// UnmarshalJSON accepts either a full author object or a bare author id,
// which is how some book endpoints list their authors.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var id ID
		if err := id.UnmarshalJSON(data); err != nil {
			return err
		}
		*a = Author{ID: id}
		return nil
	}
	type plain Author
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Author(p)
	return nil
}

func (a Author) Input() AuthorInput {
	return AuthorInput{
		Name:        a.Name,
		Nationality: a.Nationality,
		BornOn:      CanonicalDate(a.BornOn),
	}
}

// AuthorInput is the create/update payload for an author.
type AuthorInput struct {
	Name        string `json:"nombre" validate:"required,max=255"`
	Nationality string `json:"nacionalidad" validate:"max=100"`
	BornOn      string `json:"fecha_nacimiento,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AuthorBook is one row of the author/book join relation.
type AuthorBook struct {
	AuthorID ID `json:"autor_id" validate:"required"`
	BookID   ID `json:"libro_id" validate:"required"`
}

// AuthorBookUpdate moves a join row to a new (author, book) pair.
type AuthorBookUpdate struct {
	NewAuthorID ID `json:"new_autor_id" validate:"required"`
	NewBookID   ID `json:"new_libro_id" validate:"required"`
}
