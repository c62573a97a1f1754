package entity

// Book as served by GET /libros. Authors keeps the order the API returned.
type Book struct {
	ID          ID       `json:"libro_id"`
	Title       string   `json:"titulo"`
	PublishedOn string   `json:"fecha_publicacion"`
	PublisherID *ID      `json:"editorial_id"`
	Authors     []Author `json:"autores"`
}

func (b Book) AuthorIDs() []ID {
	ids := make([]ID, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}

func (b Book) HasAuthor(id ID) bool {
	for _, a := range b.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (b Book) Input() BookInput {
	return BookInput{
		Title:       b.Title,
		PublishedOn: CanonicalDate(b.PublishedOn),
		PublisherID: b.PublisherID,
		Authors:     b.AuthorIDs(),
	}
}

// BookInput is the create/update payload for a book. The server reconciles
// the author join relation from Authors.
type BookInput struct {
	Title       string `json:"titulo" validate:"required,max=255"`
	PublishedOn string `json:"fecha_publicacion,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PublisherID *ID    `json:"editorial_id"`
	Authors     []ID   `json:"autores"`
}

func (in BookInput) HasAuthor(id ID) bool {
	for _, a := range in.Authors {
		if a == id {
			return true
		}
	}
	return false
}

func (in BookInput) HasPublisher(id ID) bool {
	return in.PublisherID != nil && *in.PublisherID == id
}
