package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"bookadmin/internal/entity"
	"bookadmin/internal/platform/bookstore"

	"go.uber.org/zap"
)

var (
	nationalities = []string{"Argentina", "Chilena", "Colombiana", "Española", "Mexicana", "Peruana", "Uruguaya"}
	countries     = []string{"Argentina", "Chile", "Colombia", "España", "México"}
	bookstores    = []string{"El Ateneo", "Gandhi", "Casa del Libro", "Librería Lerner", "Fondo de Cultura"}
	words         = []string{
		"Sombra", "Viento", "Memoria", "Ciudad", "Río", "Silencio", "Jardín", "Noche",
		"Espejo", "Laberinto", "Tiempo", "Mar", "Fuego", "Sueño", "Camino", "Olvido",
	}
)

type stats struct {
	authors, publishers, books, sales int
}

type seeder struct {
	api   *bookstore.Client
	token string
	log   *zap.Logger
	rng   *rand.Rand
}

// run creates one author per two books, a handful of publishers, n books
// and one sale per book. The API returns no ids on create, so each step
// re-lists to pick up what it made.
func (s *seeder) run(ctx context.Context, n int) (stats, error) {
	var st stats
	if n <= 0 {
		return st, nil
	}

	for i := range max(n/2, 1) {
		in := entity.AuthorInput{
			Name:        fmt.Sprintf("%s %s %d", s.word(), s.word(), i+1),
			Nationality: pick(s.rng, nationalities),
			BornOn:      s.date(1890, 90),
		}
		if err := s.api.Authors.Create(ctx, s.token, in); err != nil {
			return st, fmt.Errorf("create author: %w", err)
		}
		st.authors++
	}

	for i := range min(max(n/5, 1), 8) {
		in := entity.PublisherInput{Name: fmt.Sprintf("Editorial %s %d", s.word(), i+1), Country: pick(s.rng, countries)}
		if err := s.api.Publishers.Create(ctx, s.token, in); err != nil {
			return st, fmt.Errorf("create publisher: %w", err)
		}
		st.publishers++
	}
	s.log.Info("authors and publishers created", zap.Int("authors", st.authors), zap.Int("publishers", st.publishers))

	authors, err := s.api.Authors.List(ctx, s.token)
	if err != nil {
		return st, fmt.Errorf("list authors: %w", err)
	}
	publishers, err := s.api.Publishers.List(ctx, s.token)
	if err != nil {
		return st, fmt.Errorf("list publishers: %w", err)
	}

	for i := range n {
		pub := pick(s.rng, publishers).ID
		in := entity.BookInput{
			Title:       fmt.Sprintf("%s de %s %d", s.word(), s.word(), i+1),
			PublishedOn: s.date(1950, 75),
			PublisherID: &pub,
			Authors:     s.authorsFor(authors),
		}
		if err := s.api.Books.Create(ctx, s.token, in); err != nil {
			return st, fmt.Errorf("create book: %w", err)
		}
		st.books++
		if (i+1)%10 == 0 {
			s.log.Debug("books created", zap.Int("done", i+1), zap.Int("total", n))
		}
	}

	books, err := s.api.Books.List(ctx, s.token)
	if err != nil {
		return st, fmt.Errorf("list books: %w", err)
	}
	for _, b := range books {
		in := entity.SaleInput{
			BookID:    b.ID,
			Bookstore: pick(s.rng, bookstores),
			Quantity:  1 + s.rng.IntN(20),
			Price:     json.Number(fmt.Sprintf("%d.%02d", 5+s.rng.IntN(40), s.rng.IntN(100))),
			SoldOn:    s.date(2015, 10),
		}
		if err := s.api.Sales.Create(ctx, s.token, in); err != nil {
			return st, fmt.Errorf("create sale: %w", err)
		}
		st.sales++
	}
	return st, nil
}

// authorsFor picks one or two distinct authors.
func (s *seeder) authorsFor(authors []entity.Author) []entity.ID {
	if len(authors) == 0 {
		return []entity.ID{}
	}
	first := pick(s.rng, authors).ID
	ids := []entity.ID{first}
	if second := pick(s.rng, authors).ID; second != first && s.rng.IntN(3) == 0 {
		ids = append(ids, second)
	}
	return ids
}

func (s *seeder) word() string { return pick(s.rng, words) }

// date returns a YYYY-MM-DD within span years from year.
func (s *seeder) date(year, span int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year+s.rng.IntN(span), 1+s.rng.IntN(12), 1+s.rng.IntN(28))
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
