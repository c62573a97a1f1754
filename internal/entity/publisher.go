package entity

type Publisher struct {
	ID      ID     `json:"editorial_id"`
	Name    string `json:"nombre"`
	Country string `json:"pais"`
}

func (p Publisher) Input() PublisherInput {
	return PublisherInput{Name: p.Name, Country: p.Country}
}

type PublisherInput struct {
	Name    string `json:"nombre" validate:"required,max=255"`
	Country string `json:"pais" validate:"max=100"`
}
