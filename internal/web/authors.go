package web

import (
	"bookadmin/internal/entity"
)

func (s *Server) authorsView() *crudView[entity.Author, entity.AuthorInput] {
	return &crudView[entity.Author, entity.AuthorInput]{
		s:        s,
		singular: "author",
		plural:   "authors",
		path:     "/home",
		view:     view{Page: "authors", Title: "Authors", Nav: "home"},
		resource: s.api.Authors,
		rowID:    func(a entity.Author) entity.ID { return a.ID },
		toDraft:  entity.Author.Input,
		parse:    parseAuthorForm,
	}
}
