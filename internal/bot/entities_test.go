package bot

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []snowflake.ID
		wantErr bool
	}{
		{
			name:  "raw IDs",
			input: "123 456",
			want:  []snowflake.ID{123, 456},
		},
		{
			name:  "mentions",
			input: "<@123> <@!456>",
			want:  []snowflake.ID{123, 456},
		},
		{
			name:  "mixed with duplicates",
			input: "<@123> 123 456",
			want:  []snowflake.ID{123, 456},
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "123 not-a-user",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseTargets(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRosterRank(t *testing.T) {
	t.Parallel()

	roster := &guildRoster{
		positions: map[snowflake.ID]int{10: 1, 20: 5, 30: 3},
	}

	assert.Equal(t, 0, roster.rank(nil))
	assert.Equal(t, 1, roster.rank([]snowflake.ID{10}))
	assert.Equal(t, 5, roster.rank([]snowflake.ID{10, 20, 30}))
	// Unknown roles are ignored.
	assert.Equal(t, 3, roster.rank([]snowflake.ID{30, 99}))
}

func TestBatchCommandSpecsHaveVerbs(t *testing.T) {
	t.Parallel()

	for name, spec := range batchCommandSpecs {
		assert.NotEmpty(t, spec.verb, "command %s has no verb", name)
	}
}
