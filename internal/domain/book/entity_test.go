package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGenres(t *testing.T) {
	got := NormalizeGenres([]string{" Fantasy", "fantasy", "", "Sci-Fi ", "  "})
	assert.Equal(t, []string{"Fantasy", "Sci-Fi"}, got)
	assert.Empty(t, NormalizeGenres(nil))
}

func TestNewBook_StartsWithoutRatings(t *testing.T) {
	b := NewBook(" Dune ", "Frank Herbert", "", "", []string{"Sci-Fi"}, 1965, 412, 1)

	assert.Equal(t, "Dune", b.Title)
	assert.Zero(t, b.AverageRating)
	assert.Zero(t, b.RatingCount)
}

func TestApplyUpdate(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert", "old", "", []string{"Sci-Fi"}, 1965, 412, 1)
	b.AverageRating, b.RatingCount = 4.5, 2

	title := "Dune Messiah"
	b.ApplyUpdate(UpdateParams{Title: &title, Genres: []string{}})

	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, "old", b.Description)
	assert.Empty(t, b.Genres)
	assert.Equal(t, 4.5, b.AverageRating, "评分字段不受信息更新影响")
}

func TestSharesGenre(t *testing.T) {
	b := &Book{Genres: []string{"Fantasy", "Adventure"}}
	assert.True(t, b.SharesGenre([]string{"adventure"}))
	assert.False(t, b.SharesGenre([]string{"Horror"}))
}

func TestSortByRating(t *testing.T) {
	books := []*Book{
		{ID: 1, AverageRating: 3, RatingCount: 10},
		{ID: 2, AverageRating: 4.5, RatingCount: 2},
		{ID: 3, AverageRating: 4.5, RatingCount: 8},
		{ID: 4, AverageRating: 0},
	}
	SortByRating(books)

	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	assert.Equal(t, []uint{3, 2, 1, 4}, ids)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, validate(&Book{Author: "a"}), ErrInvalidTitle)
	assert.ErrorIs(t, validate(&Book{Title: "t"}), ErrInvalidAuthor)
	assert.ErrorIs(t, validate(&Book{Title: "t", Author: "a", PublicationYear: 99999}), ErrInvalidYear)
	assert.ErrorIs(t, validate(&Book{Title: "t", Author: "a", Pages: -1}), ErrInvalidPages)
	assert.NoError(t, validate(&Book{Title: "t", Author: "a", PublicationYear: 2001, Pages: 100}))
}
