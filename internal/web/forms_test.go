package web

import (
	"encoding/json"
	"net/url"
	"testing"

	"bookadmin/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookForm(t *testing.T) {
	in, errs := parseBookForm(url.Values{
		"titulo":       {"  Ficciones "},
		"editorial_id": {"3"},
		"autores":      {"2", "1", "2", "0"},
	})
	assert.Empty(t, errs)
	assert.Equal(t, "Ficciones", in.Title)
	require.NotNil(t, in.PublisherID)
	assert.Equal(t, entity.ID(3), *in.PublisherID)
	assert.Equal(t, []entity.ID{2, 1}, in.Authors)

	in, errs = parseBookForm(url.Values{"titulo": {"X"}, "editorial_id": {""}})
	assert.Empty(t, errs)
	assert.Nil(t, in.PublisherID)
	assert.NotNil(t, in.Authors)
	assert.Empty(t, in.Authors)

	_, errs = parseBookForm(url.Values{"editorial_id": {"abc"}, "autores": {"x"}})
	require.Len(t, errs, 2)
	assert.Equal(t, "editorial_id", errs[0].Field)
	assert.Equal(t, "Authors is invalid", errs[1].Message)
}

func TestParseSaleForm(t *testing.T) {
	in, errs := parseSaleForm(url.Values{
		"libro_id":        {"4"},
		"libreria_nombre": {"Gandhi"},
		"cantidad":        {"2"},
		"precio":          {" 10.5 "},
		"fecha_venta":     {"2024-01-31"},
	})
	assert.Empty(t, errs)
	assert.Equal(t, entity.SaleInput{
		BookID:    4,
		Bookstore: "Gandhi",
		Quantity:  2,
		Price:     json.Number("10.5"),
		SoldOn:    "2024-01-31",
	}, in)
	assert.Empty(t, ValidateStruct(in))

	in, errs = parseSaleForm(url.Values{"libro_id": {"4"}, "cantidad": {"1"}, "precio": {"3"}})
	assert.Empty(t, errs)
	assert.Empty(t, ValidateStruct(in), "bookstore and date are optional")

	in, errs = parseSaleForm(url.Values{"libro_id": {"4"}})
	assert.Empty(t, errs)
	assert.Zero(t, in.Quantity)
	assert.Len(t, ValidateStruct(in), 2, "blank quantity and price are rejected")
}

func TestParseAuthorBookForm(t *testing.T) {
	row, errs := parseAuthorBookForm(url.Values{"autor_id": {"1"}, "libro_id": {"2"}})
	assert.Empty(t, errs)
	assert.Equal(t, entity.AuthorBook{AuthorID: 1, BookID: 2}, row)

	_, errs = parseAuthorBookForm(url.Values{"autor_id": {"-1"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "Author is invalid", errs[0].Message)
}

func TestCheckbox(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "YES"} {
		assert.True(t, checkbox(url.Values{"isAdmin": {v}}, "isAdmin"), v)
	}
	assert.False(t, checkbox(url.Values{}, "isAdmin"))
	assert.False(t, checkbox(url.Values{"isAdmin": {"off"}}, "isAdmin"))
}

func TestParseUserForm_KeepsPasswordVerbatim(t *testing.T) {
	in := parseUserForm(url.Values{"username": {" ana "}, "password": {" spaced "}})
	assert.Equal(t, "ana", in.Username)
	assert.Equal(t, " spaced ", in.Password)
	assert.False(t, in.IsAdmin)
}
