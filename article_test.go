package newswatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewArticle(t *testing.T) {
	a := NewArticle("A Headline", "https://www.site.com/2024/05/02/headline/", "economy")

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "site.com/2024/05/02/headline", a.NormalizedURL)
	assert.Equal(t, "economy", a.Keyword)
	assert.NotNil(t, a.Authors)
	assert.False(t, a.CreatedAt.IsZero())

	b := NewArticle("A Headline", "https://www.site.com/2024/05/02/headline/", "economy")
	assert.NotEqual(t, a.ID, b.ID, "IDs are unique per record")
}

// TestArticleExport verifies unset optional fields surface as empty
// values, never missing ones.
func TestArticleExport(t *testing.T) {
	a := NewArticle("Title", "https://site.com/2024/05/02/story", "economy")
	a.Authors = nil

	rec := a.Export()

	assert.Equal(t, "Title", rec.Title)
	assert.Equal(t, "site.com/2024/05/02/story", rec.NormalizedURL)
	assert.NotNil(t, rec.Authors)
	assert.Empty(t, rec.Authors)
	assert.Equal(t, "", rec.Content)
	assert.Equal(t, "", rec.PublishedDate)
	assert.Equal(t, "", rec.Source)
}
