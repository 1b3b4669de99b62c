package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/models"
)

func defaultResolver(t *testing.T) *TableResolver {
	t.Helper()
	table, err := DefaultTable()
	require.NoError(t, err)
	return NewTableResolver(table)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Boston Celtics", "boston celtics"},
		{"The Ohio State University Buckeyes", "ohio buckeyes"},
		{"Kansas St. Wildcats", "kansas wildcats"},
		{"St. John's Red Storm", "johns red storm"},
		{"  Sañ   Antonio Spurs ", "san antonio spurs"},
		{"Philadelphia 76ers", "philadelphia 76ers"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("boston celtics", "celtics boston"))
	assert.InDelta(t, 0.8, Similarity("portland blazers", "portland trail blazers"), 1e-9)
	assert.InDelta(t, 0.4, Similarity("okc thunder", "oklahoma city thunder"), 1e-9)
	assert.Zero(t, Similarity("", "boston celtics"))
}

func TestResolveStrategies(t *testing.T) {
	r := defaultResolver(t)

	tests := []struct {
		name     string
		league   models.League
		wantID   string
		strategy string
	}{
		{"Boston Celtics", models.LeagueNBA, "2", "exact"},
		{"LA Lakers", models.LeagueNBA, "13", "exact"},
		{"boston celtics!", models.LeagueNBA, "2", "normalized"},
		{"Kansas State Wildcats", models.LeagueNCAAB, "2306", "normalized"},
		{"Portland Blazers", models.LeagueNBA, "22", "token_overlap"},
		{"Miami", models.LeagueNBA, "14", "token_overlap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := r.ResolveDetailed(tt.name, tt.league)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, res.ID)
			assert.Equal(t, tt.strategy, res.Strategy)
		})
	}
}

func TestResolveMisses(t *testing.T) {
	r := defaultResolver(t)

	// short nickname against a three-token full name stays below the threshold
	_, ok := r.Resolve("OKC Thunder", models.LeagueNBA)
	assert.False(t, ok)

	_, ok = r.Resolve("Toronto Argonauts Football Club", models.LeagueNBA)
	assert.False(t, ok)

	_, ok = r.Resolve("Boston Celtics", models.LeagueNCAAB)
	assert.False(t, ok)

	_, ok = r.Resolve("", models.LeagueNBA)
	assert.False(t, ok)
}

func TestResolveCustomTableAndMatcher(t *testing.T) {
	table := NewTable(map[models.League][]Entry{
		models.LeagueNBA: {{Name: "Oklahoma City Thunder", ID: "25"}},
	})

	strict := NewTableResolver(table)
	_, ok := strict.Resolve("OKC Thunder", models.LeagueNBA)
	assert.False(t, ok)

	loose := NewTableResolver(table, TokenOverlapMatcher{Threshold: 0.4})
	id, ok := loose.Resolve("OKC Thunder", models.LeagueNBA)
	assert.True(t, ok)
	assert.Equal(t, "25", id)
}

func TestParseTableRejectsBadEntries(t *testing.T) {
	_, err := ParseTable([]byte("nba:\n  - {name: Boston Celtics}\n"))
	assert.Error(t, err)

	_, err = ParseTable([]byte("nfl:\n  - {name: Chicago Bears, id: \"3\"}\n"))
	assert.Error(t, err)
}
