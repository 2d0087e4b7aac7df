package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{
			name:    "no tags",
			caption: "new track out friday",
			want:    []string{},
		},
		{
			name:    "single tag",
			caption: "new track out friday #freestyle",
			want:    []string{"freestyle"},
		},
		{
			name:    "lowercased and deduplicated",
			caption: "#Freestyle all day #FREESTYLE #boombap",
			want:    []string{"freestyle", "boombap"},
		},
		{
			name:    "tags mid-sentence",
			caption: "dropping #bars over a #lofi beat, who's up",
			want:    []string{"bars", "lofi"},
		},
		{
			name:    "bare hash ignored",
			caption: "ranked # 1 on the charts",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.caption))
		})
	}
}

func TestGenerateRoomId(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateRoomId()
		require.NoError(t, err)
		assert.Len(t, id, 16)
		assert.False(t, seen[id], "room id collision: %s", id)
		seen[id] = true
	}
}
