package web

import (
	"bookadmin/internal/entity"
)

func (s *Server) publishersView() *crudView[entity.Publisher, entity.PublisherInput] {
	return &crudView[entity.Publisher, entity.PublisherInput]{
		s:        s,
		singular: "publisher",
		plural:   "publishers",
		path:     "/editoriales",
		view:     view{Page: "publishers", Title: "Publishers", Nav: "editoriales"},
		resource: s.api.Publishers,
		rowID:    func(p entity.Publisher) entity.ID { return p.ID },
		toDraft:  entity.Publisher.Input,
		parse:    parsePublisherForm,
	}
}
