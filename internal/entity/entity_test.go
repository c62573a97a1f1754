package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1965-03-12T00:00:00.000Z", "1965-03-12"},
		{"2001-09-30T22:00:00-05:00", "2001-09-30"},
		{"2020-02-29", "2020-02-29"},
		{"2020-02-29 10:11:12", "2020-02-29"},
		{"", ""},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalDate(tt.in), tt.in)
	}
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want Flag
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"true"`, true},
		{`"1"`, true},
		{`"no"`, false},
		{`null`, false},
	}
	for _, tt := range tests {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &f), tt.raw)
		assert.Equal(t, tt.want, f, tt.raw)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`{}`), &f))
}

func TestID_UnmarshalJSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[7, "8", null]`), &ids))
	assert.Equal(t, []ID{7, 8, 0}, ids)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)

	id, err = ParseID("")
	require.NoError(t, err)
	assert.Equal(t, ID(0), id)

	_, err = ParseID("-1")
	assert.Error(t, err)
	_, err = ParseID("abc")
	assert.Error(t, err)
}

func TestBook_DecodesAuthorObjectsAndIDs(t *testing.T) {
	raw := `[
		{"libro_id": 1, "titulo": "Rayuela", "fecha_publicacion": "1963-06-28T00:00:00.000Z",
		 "editorial_id": 3, "autores": [{"autor_id": 1, "nombre": "Julio"}, {"autor_id": 2, "nombre": "Otro"}]},
		{"libro_id": 2, "titulo": "Ficciones", "editorial_id": null, "autores": [4, "5"]}
	]`
	var books []Book
	require.NoError(t, json.Unmarshal([]byte(raw), &books))
	require.Len(t, books, 2)

	assert.Equal(t, []ID{1, 2}, books[0].AuthorIDs())
	assert.Equal(t, "Julio", books[0].Authors[0].Name)
	require.NotNil(t, books[0].PublisherID)
	assert.Equal(t, ID(3), *books[0].PublisherID)
	assert.True(t, books[0].HasAuthor(2))

	assert.Nil(t, books[1].PublisherID)
	assert.Equal(t, []ID{4, 5}, books[1].AuthorIDs())

	in := books[0].Input()
	assert.Equal(t, "1963-06-28", in.PublishedOn)
	assert.True(t, in.HasAuthor(1))
	assert.True(t, in.HasPublisher(3))
	assert.False(t, in.HasPublisher(4))
}

func TestBookInput_MarshalsAuthorIDs(t *testing.T) {
	pub := ID(3)
	b, err := json.Marshal(BookInput{Title: "T", PublisherID: &pub, Authors: []ID{1, 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"titulo":"T","editorial_id":3,"autores":[1,2]}`, string(b))
}

func TestSale_PriceAcceptsNumberOrString(t *testing.T) {
	var sales []Sale
	raw := `[{"venta_id":1,"libro_id":2,"precio":"19.90","cantidad":3},{"venta_id":2,"libro_id":2,"precio":5}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &sales))
	assert.Equal(t, json.Number("19.90"), sales[0].Price)
	assert.Equal(t, json.Number("5"), sales[1].Price)
}

func TestUserInput_OmitsEmptyPassword(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Username: "ana", IsAdmin: true}.Input())
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ana","isAdmin":true}`, string(b))
}
