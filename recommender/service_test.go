package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/imkonsowa/vibe-eats/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func newTestService(catalog Catalog, completer Completer) *Service {
	images := testImages()
	return NewService(catalog, NewPromptBuilder(images), completer, NewNormalizer(images))
}

func TestRecommend(t *testing.T) {
	catalog := &stubCatalog{restaurants: testCatalog()}
	completer := &stubCompleter{text: "```json\n" + generatedList + "\n```"}

	recs, err := newTestService(catalog, completer).Recommend(context.Background(), "I'm stressed and need comfort food")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, 1, catalog.calls)
	assert.Equal(t, 1, completer.calls)
	assert.Contains(t, completer.prompt, "I'm stressed and need comfort food")
	assert.Contains(t, completer.prompt, "- Lasagna (Pasta)")
	assert.Equal(t, testStorageBase+"/dishes/pizza.jpg", recs[0].Image)
}

func TestRecommendBlankMood(t *testing.T) {
	for _, mood := range []string{"", "   ", "\n\t"} {
		catalog := &stubCatalog{restaurants: testCatalog()}
		completer := &stubCompleter{text: generatedList}

		recs, err := newTestService(catalog, completer).Recommend(context.Background(), mood)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, recs)
		assert.Zero(t, catalog.calls)
		assert.Zero(t, completer.calls)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	tests := []struct {
		name        string
		restaurants []models.RestaurantWithMenuItems
	}{
		{name: "no restaurants", restaurants: nil},
		{name: "restaurants without dishes", restaurants: []models.RestaurantWithMenuItems{
			{Restaurant: models.Restaurant{ID: "r-1", Name: "Empty Kitchen"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &stubCompleter{text: generatedList}

			_, err := newTestService(&stubCatalog{restaurants: tt.restaurants}, completer).
				Recommend(context.Background(), "happy")
			require.ErrorIs(t, err, ErrEmptyCatalog)
			assert.Zero(t, completer.calls)
		})
	}
}

func TestRecommendCatalogFailure(t *testing.T) {
	dbErr := errors.New("connection refused")
	completer := &stubCompleter{text: generatedList}

	_, err := newTestService(&stubCatalog{err: dbErr}, completer).Recommend(context.Background(), "happy")
	require.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "failed to read catalog")
	assert.Zero(t, completer.calls)
}

func TestRecommendUpstreamFailure(t *testing.T) {
	upstream := &UpstreamError{Kind: UpstreamRateLimit, Err: errors.New("status code: 429")}

	_, err := newTestService(&stubCatalog{restaurants: testCatalog()}, &stubCompleter{err: upstream}).
		Recommend(context.Background(), "happy")

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, UpstreamRateLimit, upstreamErr.Kind)
}

func TestRecommendMalformedResponse(t *testing.T) {
	_, err := newTestService(&stubCatalog{restaurants: testCatalog()}, &stubCompleter{text: "Here are some ideas!"}).
		Recommend(context.Background(), "happy")

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestRecommendEndToEndWithRequester(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{text: generatedList}}}
	images := testImages()
	svc := NewService(&stubCatalog{restaurants: testCatalog()}, NewPromptBuilder(images), newTestRequester(gen), NewNormalizer(images))

	recs, err := svc.Recommend(context.Background(), "adventurous")
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	require.Equal(t, 1, gen.Calls())
	human, ok := gen.messages[0][1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Contains(t, human.Text, "adventurous")
}
