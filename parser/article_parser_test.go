package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"nestly/parser"
)

const sampleArticle = `<!DOCTYPE html>
<html>
<head>
  <title>Weeknight Ramen Recipe</title>
  <meta name="description" content="A quick bowl of ramen with pantry ingredients.">
  <meta property="og:image" content="/images/ramen.jpg">
</head>
<body>
  <article>
    <h1>Weeknight Ramen Recipe</h1>
    <p class="byline">By Jamie Park</p>
    <p>Bring a pot of water to a boil and prepare the broth with miso, soy sauce and a little sesame oil.
    The noodles only need three minutes, so have the toppings ready before you start cooking.</p>
    <p>Slice scallions, soft boil two eggs and warm some leftover chicken. Assemble everything in a wide bowl,
    pour the hot broth over the noodles and finish with chili oil. This recipe serves two people generously.</p>
    <p>For a vegetarian version swap the chicken for roasted mushrooms and use kombu dashi for the broth.
    Leftover broth keeps in the fridge for three days and tastes even better the next day.</p>
  </article>
</body>
</html>`

func TestParseArticleMeta(t *testing.T) {
	meta := parser.ParseArticleMeta(sampleArticle, "https://blog.example.com/ramen")

	assert.Contains(t, meta.Title, "Ramen")
	assert.NotEmpty(t, meta.Description)
	assert.Equal(t, "https://blog.example.com/images/ramen.jpg", meta.Image)
}

func TestParseArticleMetaEmptyInput(t *testing.T) {
	meta := parser.ParseArticleMeta("   ", "https://example.com")
	assert.Equal(t, parser.ArticleMeta{}, meta)
	assert.False(t, meta.Complete())
}

func TestParseArticleMetaDoesNotPanicOnFragments(t *testing.T) {
	inputs := []string{
		"<div>",
		"plain text without markup",
		strings.Repeat("<p>x</p>", 50),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			parser.ParseArticleMeta(in, "")
		})
	}
}
