package suggestion

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/perf-insights/internal/entity"
)

func sixSuggestions() []entity.Suggestion {
	out := make([]entity.Suggestion, 6)
	for i := range out {
		out[i] = entity.Suggestion{Text: fmt.Sprintf("tip %d", i+1), Link: fmt.Sprintf("https://example.com/%d", i+1)}
	}
	return out
}

func TestCatalogCoversEveryCategory(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateCatalog(catalog))
	for _, cat := range entity.Categories {
		assert.Len(t, ForCategory(cat), 6, cat)
	}
	assert.Nil(t, ForCategory("Unknown"))

	broken := map[entity.Category][]entity.Suggestion{entity.CategoryNetworkLatency: sixSuggestions()}
	assert.Error(t, validateCatalog(broken))
}

func TestForCategoryReturnsCopy(t *testing.T) {
	t.Parallel()

	got := ForCategory(entity.CategoryFontLoading)
	got[0].Text = "changed"
	assert.NotEqual(t, "changed", ForCategory(entity.CategoryFontLoading)[0].Text)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LevelIntermediate, ParseLevel(""))
	assert.Equal(t, LevelBasic, ParseLevel(" Basic "))
	assert.Equal(t, LevelAdvanced, ParseLevel("advanced"))
	assert.Equal(t, Level("expert"), ParseLevel("expert"))
	assert.False(t, ParseLevel("expert").Known())
	assert.True(t, ParseLevel("").Known())
}

func TestFilter(t *testing.T) {
	t.Parallel()

	list := sixSuggestions()
	cases := []struct {
		level Level
		want  int
	}{
		{LevelBasic, 2},
		{LevelIntermediate, 4},
		{LevelAdvanced, 6},
		{Level("verbose"), 6},
	}
	for _, tc := range cases {
		t.Run(string(tc.level), func(t *testing.T) {
			got := Filter(list, tc.level)
			require.Len(t, got, tc.want)
			if diff := cmp.Diff(list[:tc.want], got); diff != "" {
				t.Errorf("Filter(%s) mismatch (-want +got):\n%s", tc.level, diff)
			}
		})
	}

	assert.Empty(t, Filter(nil, LevelAdvanced))
	assert.Len(t, Filter(list[:1], LevelBasic), 1)
}

func TestFilterAdvancedIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Filter(sixSuggestions(), LevelAdvanced)
	twice := Filter(once, LevelAdvanced)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("advanced filter not idempotent (-once +twice):\n%s", diff)
	}
}

func TestGenerateBasicKeepsFirstTwo(t *testing.T) {
	t.Parallel()

	in := []entity.Bottleneck{{
		Category:    entity.CategoryResourceSize,
		Title:       "Large JavaScript Payload",
		Severity:    entity.SeverityHigh,
		Suggestions: sixSuggestions(),
	}}

	got := Generate(in, LevelBasic)
	require.Len(t, got, 1)
	if diff := cmp.Diff(in[0].Suggestions[:2], got[0].Suggestions); diff != "" {
		t.Errorf("basic suggestions mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, in[0].Suggestions, 6)
	assert.Equal(t, in[0].Title, got[0].Title)
}

func TestGenerateFallsBackToCatalog(t *testing.T) {
	t.Parallel()

	in := []entity.Bottleneck{
		{Category: entity.CategoryNetworkLatency, Severity: entity.SeverityMedium},
		{Category: "Custom", Severity: entity.SeverityLow},
	}
	got := Generate(in, LevelIntermediate)
	require.Len(t, got, 2)

	want := ForCategory(entity.CategoryNetworkLatency)[:4]
	if diff := cmp.Diff(want, got[0].Suggestions); diff != "" {
		t.Errorf("catalog fallback mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, got[1].Suggestions)
	assert.Nil(t, in[0].Suggestions)
}

func TestGenerateEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Generate(nil, LevelBasic))
}
