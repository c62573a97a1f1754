package entity

import "encoding/json"

// Sale of a book through a retailer. BookTitle is filled in by the API on
// reads and never sent back.
type Sale struct {
	ID        ID          `json:"venta_id"`
	BookID    ID          `json:"libro_id"`
	BookTitle string      `json:"libro_titulo,omitempty"`
	Bookstore string      `json:"libreria_nombre"`
	Quantity  int         `json:"cantidad"`
	Price     json.Number `json:"precio"`
	SoldOn    string      `json:"fecha_venta"`
}

func (s Sale) Input() SaleInput {
	return SaleInput{
		BookID:    s.BookID,
		Bookstore: s.Bookstore,
		Quantity:  s.Quantity,
		Price:     s.Price,
		SoldOn:    CanonicalDate(s.SoldOn),
	}
}

type SaleInput struct {
	BookID    ID          `json:"libro_id" validate:"required"`
	Bookstore string      `json:"libreria_nombre" validate:"max=255"`
	Quantity  int         `json:"cantidad" validate:"required,gte=1"`
	Price     json.Number `json:"precio" validate:"required,decimal"`
	SoldOn    string      `json:"fecha_venta,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
