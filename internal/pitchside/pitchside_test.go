package pitchside

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		home string
		away string
		date string
		want string
	}{
		{
			name: "multi word names",
			home: "Alpha FC",
			away: "Beta United",
			date: "2025-03-10",
			want: "alpha-fc-vs-beta-united-2025",
		},
		{
			name: "single word names",
			home: "Arsenal",
			away: "Chelsea",
			date: "2024-12-26",
			want: "arsenal-vs-chelsea-2024",
		},
		{
			name: "unparseable date drops the year",
			home: "Arsenal",
			away: "Chelsea",
			date: "whenever",
			want: "arsenal-vs-chelsea",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.home, tt.away, tt.date))
		})
	}
}

func TestStreamSrc(t *testing.T) {
	embed := `<iframe src="https://player.example.com/stream/42" width="640" frameborder="0"></iframe>`
	assert.Equal(t, "https://player.example.com/stream/42", StreamSrc(embed))

	assert.Equal(t, "", StreamSrc("<div>Stream link not added yet</div>"))
	assert.Equal(t, "", StreamSrc(""))
}

func TestMatchStatusValid(t *testing.T) {
	assert.True(t, StatusLive.Valid())
	assert.True(t, StatusUpcoming.Valid())
	assert.True(t, StatusFinished.Valid())
	assert.False(t, MatchStatus("in_play").Valid())
	assert.False(t, MatchStatus("").Valid())
}
