package recommender

import (
	"testing"

	"tunematch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name   string
		vector models.PreferenceVector
		want   Request
	}{
		{
			name: "typical vector",
			vector: models.PreferenceVector{
				HipHop: 0.8, Rap: 0.6, Romantic: 0.1,
				Happy: 0.7, Chill: 0.2, Sad: 0.0, Bpm: 128,
			},
			want: Request{
				Genres: []string{"hipHop", "rap"},
				Mood:   "happy",
				Tempo:  128,
			},
		},
		{
			name:   "all zero",
			vector: models.PreferenceVector{},
			want:   Request{},
		},
		{
			name: "ties keep declaration order",
			vector: models.PreferenceVector{
				HipHop: 0.6, Rap: 0.6, Sad: 0.6, Chill: 0.6,
			},
			want: Request{
				Genres: []string{"hipHop", "rap"},
				Mood:   "sad",
			},
		},
		{
			name: "dynamic metrics go to other",
			vector: models.PreferenceVector{
				HipHop: 0.9, Bpm: 100.4,
				Extra: map[string]float64{"jazz": 0.7, "lofi": 0.7, "metal": 0.2},
			},
			want: Request{
				Genres: []string{"hipHop"},
				Tempo:  100,
				Other:  []string{"jazz", "lofi"},
			},
		},
		{
			name:   "bpm rounds to nearest integer",
			vector: models.PreferenceVector{Rap: 0.5, Chill: 0.5, Bpm: 127.6},
			want: Request{
				Genres: []string{"rap"},
				Mood:   "chill",
				Tempo:  128,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(tt.vector))
		})
	}
}

func TestCompose_ScoresBelowThresholdExcluded(t *testing.T) {
	req := Compose(models.PreferenceVector{HipHop: 0.49, Rap: 0.5, Happy: 0.3})

	assert.Equal(t, []string{"rap"}, req.Genres)
	assert.Equal(t, "happy", req.Mood)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid", Request{Genres: []string{"rap"}, Tempo: 120}, false},
		{"tempo too high", Request{Genres: []string{"rap"}, Tempo: 300}, true},
		{"tempo too low", Request{Genres: []string{"rap"}, Tempo: 39}, true},
		{"tempo at lower bound", Request{Genres: []string{"rap"}, Tempo: 40}, false},
		{"tempo at upper bound", Request{Genres: []string{"rap"}, Tempo: 220}, false},
		{"empty genres", Request{Tempo: 120}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	req := Request{
		Genres: []string{"hipHop", "rap"},
		Mood:   "happy",
		Tempo:  128,
		Other:  []string{"female vocals"},
	}

	want := "Suggest a song (title and artist) for someone who enjoys:\n" +
		"- Genres: hipHop, rap\n" +
		"- Mood: happy\n" +
		"- Tempo: 128 BPM\n" +
		"- Other traits: female vocals"
	assert.Equal(t, want, Render(req))
}

func TestRender_OmitsEmptySections(t *testing.T) {
	out := Render(Request{Genres: []string{"rap"}})

	assert.Equal(t, "Suggest a song (title and artist) for someone who enjoys:\n- Genres: rap", out)
	assert.NotContains(t, out, "Mood")
	assert.NotContains(t, out, "Tempo")
	assert.NotContains(t, out, "Other")
}

// Mesmo vetor, mesmo prompt, byte a byte.
func TestRender_Deterministic(t *testing.T) {
	vector := models.PreferenceVector{
		HipHop: 0.8, Rap: 0.6, Happy: 0.7, Bpm: 128,
		Extra: map[string]float64{"jazz": 0.9, "lofi": 0.9, "soul": 0.6},
	}

	first := Render(Compose(vector))
	require.NotEmpty(t, first)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Render(Compose(vector)))
	}
}
