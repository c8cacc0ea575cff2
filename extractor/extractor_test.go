package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Fed Cuts Rates in Surprise Move</title>
	<meta name="author" content="Jane Doe">
	<meta property="article:published_time" content="2024-05-02T09:30:00Z">
</head>
<body>
	<article>
		<h1>Fed Cuts Rates in Surprise Move</h1>
		<p>The Federal Reserve cut its benchmark interest rate by a quarter
		point on Thursday, a move that caught most economists off guard and
		sent markets sharply higher in early trading across the board.</p>
		<p>Officials pointed to softening labor market data and cooling
		inflation as the main drivers behind the decision, which marks the
		first reduction in borrowing costs in more than two years.</p>
		<p>Analysts said the decision signals a broader shift in the
		central bank's thinking about the balance of risks facing the
		economy heading into the second half of the year.</p>
	</article>
</body>
</html>`

func TestExtract(t *testing.T) {
	e := New()

	extraction, err := e.Extract("https://www.example.com/2024/05/02/fed-cuts.html", []byte(articleHTML))
	require.NoError(t, err)

	assert.Equal(t, "Fed Cuts Rates in Surprise Move", extraction.Title)
	assert.Contains(t, extraction.Text, "benchmark interest rate")
	assert.Contains(t, extraction.Text, "softening labor market data")
	assert.Contains(t, extraction.Authors, "Jane Doe")
	assert.Equal(t, "2024-05-02T09:30:00Z", extraction.PublishedRaw)
}

func TestExtract_EmptyMarkup(t *testing.T) {
	e := New()

	_, err := e.Extract("https://example.com/story", nil)
	assert.Error(t, err)
}

// TestExtract_AuthorURLSkipped verifies profile-URL author values are
// not treated as display names.
func TestExtract_AuthorURLSkipped(t *testing.T) {
	html := strings.Replace(articleHTML,
		`<meta name="author" content="Jane Doe">`,
		`<meta property="article:author" content="https://example.com/staff/jane-doe">`, 1)

	e := New()
	extraction, err := e.Extract("https://example.com/story", []byte(html))
	require.NoError(t, err)

	for _, author := range extraction.Authors {
		assert.False(t, strings.HasPrefix(author, "http"), "author %q looks like a URL", author)
	}
}

// TestExtract_TimeElementFallback verifies the publish date falls back
// to <time datetime> when no date-bearing meta tag exists.
func TestExtract_TimeElementFallback(t *testing.T) {
	html := strings.Replace(articleHTML,
		`<meta property="article:published_time" content="2024-05-02T09:30:00Z">`,
		``, 1)
	html = strings.Replace(html,
		`<h1>Fed Cuts Rates in Surprise Move</h1>`,
		`<h1>Fed Cuts Rates in Surprise Move</h1>
		<time datetime="2024-05-02">May 2, 2024</time>`, 1)

	e := New()
	extraction, err := e.Extract("https://example.com/story", []byte(html))
	require.NoError(t, err)

	assert.Equal(t, "2024-05-02", extraction.PublishedRaw)
}
