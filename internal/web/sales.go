package web

import (
	"bookadmin/internal/entity"
)

// Sales pick their book from the book list.
func (s *Server) salesView() *crudView[entity.Sale, entity.SaleInput] {
	return &crudView[entity.Sale, entity.SaleInput]{
		s:        s,
		singular: "sale",
		plural:   "sales",
		path:     "/ventas",
		view:     view{Page: "sales", Title: "Sales", Nav: "ventas"},
		resource: s.api.Sales,
		rowID:    func(v entity.Sale) entity.ID { return v.ID },
		toDraft:  entity.Sale.Input,
		parse:    parseSaleForm,
		needs:    needBooks,
	}
}
