package moderation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/moderation"
)

func TestShortenBelowNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     []string
		separator string
		budget    int
		want      string
	}{
		{
			name:      "everything fits",
			items:     []string{"a", "b", "c"},
			separator: ", ",
			budget:    100,
			want:      "a, b, c",
		},
		{
			name:      "no items",
			items:     nil,
			separator: ", ",
			budget:    100,
			want:      "",
		},
		{
			name:      "oversized first item omitted",
			items:     []string{strings.Repeat("x", 20)},
			separator: ", ",
			budget:    10,
			want:      "",
		},
		{
			name:      "stops before exceeding budget",
			items:     []string{"aaaa", "bbbb", "cccc"},
			separator: "\n",
			budget:    9,
			want:      "aaaa\nbbbb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := moderation.ShortenBelowNumber(tt.items, tt.separator, tt.budget)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortenBelowNumberLargeList(t *testing.T) {
	t.Parallel()

	items := make([]string, 2000)
	for i := range items {
		items[i] = "x"
	}

	got := moderation.ShortenBelowNumber(items, ", ", 1000)

	assert.LessOrEqual(t, len(got), 1000)
	// Only whole items: every chunk between separators is a single "x".
	for _, part := range strings.Split(got, ", ") {
		assert.Equal(t, "x", part)
	}
}

func TestSummarizeFullSuccess(t *testing.T) {
	t.Parallel()

	actor := moderation.Entity{ID: 1, Name: "mod", Rank: 100, Member: true}
	result := moderation.BatchResult{
		Succeeded: []moderation.Entity{
			{ID: 10, Name: "alice"},
			{ID: 11, Name: "bob"},
			{ID: 12, Name: "carol"},
		},
	}

	report := moderation.Summarize(actor, "banned", "spamming", result)

	assert.Equal(t, moderation.ToneSuccess, report.Tone)
	assert.Contains(t, report.Description, "3 users were banned")
	require.Len(t, report.Fields, 1)
	assert.Contains(t, report.Fields[0].Value, "alice")
	assert.Contains(t, report.Fields[0].Value, "bob")
	assert.Contains(t, report.Fields[0].Value, "carol")
}

func TestSummarizeMixed(t *testing.T) {
	t.Parallel()

	actor := moderation.Entity{ID: 1, Name: "mod", Rank: 100, Member: true}
	result := moderation.BatchResult{
		Succeeded: []moderation.Entity{{ID: 10, Name: "alice"}},
		Failed:    []moderation.Entity{{ID: 11, Name: "bob"}},
	}

	report := moderation.Summarize(actor, "kicked", "rules", result)

	assert.Equal(t, moderation.ToneWarning, report.Tone)
	assert.Contains(t, report.Description, "1 users were kicked")
	assert.Contains(t, report.Description, "1 users couldn't be kicked")
	require.Len(t, report.Fields, 2)
	assert.Contains(t, report.Fields[0].Value, "bob")
	assert.Contains(t, report.Fields[1].Value, "alice")
}

func TestSummarizeNothingSucceeded(t *testing.T) {
	t.Parallel()

	actor := moderation.Entity{ID: 1, Name: "mod", Rank: 100, Member: true}
	result := moderation.BatchResult{
		Failed: []moderation.Entity{{ID: 11, Name: "bob"}},
	}

	report := moderation.Summarize(actor, "muted", "noise", result)

	assert.Equal(t, moderation.ToneFailure, report.Tone)
	assert.Empty(t, report.Fields)
}

func TestSummarizeTruncatesReason(t *testing.T) {
	t.Parallel()

	actor := moderation.Entity{ID: 1, Name: "mod", Rank: 100, Member: true}
	result := moderation.BatchResult{
		Succeeded: []moderation.Entity{{ID: 10, Name: "alice"}},
	}

	report := moderation.Summarize(actor, "banned", strings.Repeat("r", 5000), result)

	assert.Less(t, len(report.Description), 1200)
}
