package recommender

import (
	"context"
	"sync"
	"testing"

	"tunematch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore aplica a mesma regra de merge do store real, em memória.
type fakeStore struct {
	mu      sync.Mutex
	vectors map[int64]models.PreferenceVector
}

func newFakeStore() *fakeStore {
	return &fakeStore{vectors: map[int64]models.PreferenceVector{}}
}

func (f *fakeStore) Get(userID int64) (models.PreferenceVector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vectors[userID], nil
}

func (f *fakeStore) Apply(userID int64, fn func(*models.PreferenceVector)) (models.PreferenceVector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.vectors[userID]
	fn(&v)
	f.vectors[userID] = v
	return v, nil
}

func newFeedbackService(st PreferenceStore) *Service {
	return NewService(st, nil, Options{LearningRate: 0.05, BpmPull: 0.1})
}

func TestApplyFeedback_AcceptRaisesScores(t *testing.T) {
	st := newFakeStore()
	svc := newFeedbackService(st)

	v, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: SWIPE_ACCEPT,
		Tags:      map[string]float64{"hipHop": 1.0, "happy": 0.5},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, v.HipHop, 1e-12)
	assert.InDelta(t, 0.025, v.Happy, 1e-12)
}

func TestApplyFeedback_RejectLowersScores(t *testing.T) {
	st := newFakeStore()
	st.vectors[1] = models.PreferenceVector{HipHop: 0.5}
	svc := newFeedbackService(st)

	v, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: SWIPE_REJECT,
		Tags:      map[string]float64{"hipHop": 1.0},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.45, v.HipHop, 1e-12)
}

func TestApplyFeedback_UnknownDirection(t *testing.T) {
	svc := newFeedbackService(newFakeStore())

	_, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: "sideways",
		Tags:      map[string]float64{"hipHop": 1.0},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// Accept seguido do reject exatamente inverso devolve o vetor ao estado
// anterior (simetria de sinal da regra de aprendizado).
func TestApplyFeedback_AcceptRejectSymmetry(t *testing.T) {
	st := newFakeStore()
	start := models.PreferenceVector{HipHop: 0.4, Rap: 0.3, Happy: 0.6}
	st.vectors[1] = start
	svc := newFeedbackService(st)

	tags := map[string]float64{"hipHop": 0.8, "rap": 0.2, "happy": 0.5, "jazz": 0.9}
	ctx := context.Background()

	_, err := svc.ApplyFeedback(ctx, 1, SwipeEvent{Direction: SWIPE_ACCEPT, Tags: tags})
	require.NoError(t, err)
	after, err := svc.ApplyFeedback(ctx, 1, SwipeEvent{Direction: SWIPE_REJECT, Tags: tags})
	require.NoError(t, err)

	assert.InDelta(t, start.HipHop, after.HipHop, 1e-9)
	assert.InDelta(t, start.Rap, after.Rap, 1e-9)
	assert.InDelta(t, start.Happy, after.Happy, 1e-9)
	assert.InDelta(t, 0.0, after.Extra["jazz"], 1e-9)
}

// Scores ficam em [0,1] depois de qualquer sequência de swipes.
func TestApplyFeedback_ScoresStayBounded(t *testing.T) {
	st := newFakeStore()
	svc := newFeedbackService(st)
	ctx := context.Background()

	tags := map[string]float64{"hipHop": 1.0, "sad": 1.0}
	for i := 0; i < 100; i++ {
		_, err := svc.ApplyFeedback(ctx, 1, SwipeEvent{Direction: SWIPE_ACCEPT, Tags: tags})
		require.NoError(t, err)
	}
	v, _ := st.Get(1)
	assert.Equal(t, 1.0, v.HipHop)

	for i := 0; i < 300; i++ {
		_, err := svc.ApplyFeedback(ctx, 1, SwipeEvent{Direction: SWIPE_REJECT, Tags: tags})
		require.NoError(t, err)
	}
	v, _ = st.Get(1)
	assert.Equal(t, 0.0, v.HipHop)
	assert.Equal(t, 0.0, v.Sad)
}

func TestApplyFeedback_BpmPulledTowardCandidate(t *testing.T) {
	st := newFakeStore()
	st.vectors[1] = models.PreferenceVector{Bpm: 100}
	svc := newFeedbackService(st)

	v, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: SWIPE_ACCEPT,
		Tags:      map[string]float64{"bpm": 140},
	})
	require.NoError(t, err)
	// 100 + 0.1 * (140 - 100)
	assert.InDelta(t, 104.0, v.Bpm, 1e-12)
}

func TestApplyFeedback_ConcurrentAcceptsCompoundBpmPull(t *testing.T) {
	st := newFakeStore()
	st.vectors[1] = models.PreferenceVector{Bpm: 100}
	svc := newFeedbackService(st)

	// Cada aceite tem que ler o bpm já atualizado pelo anterior:
	// 100 -> 104 -> 107.6. Ler o valor antigo duas vezes daria 108.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
				Direction: SWIPE_ACCEPT,
				Tags:      map[string]float64{"bpm": 140},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, _ := st.Get(1)
	assert.InDelta(t, 107.6, v.Bpm, 1e-9)
}

func TestApplyFeedback_RejectLeavesBpmAlone(t *testing.T) {
	st := newFakeStore()
	st.vectors[1] = models.PreferenceVector{Bpm: 100}
	svc := newFeedbackService(st)

	v, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: SWIPE_REJECT,
		Tags:      map[string]float64{"bpm": 140, "hipHop": 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Bpm)
}

type stubEnricher struct {
	calls int
	tags  map[string]float64
	err   error
}

func (s *stubEnricher) TrackTags(ctx context.Context, artist, track string) (map[string]float64, error) {
	s.calls++
	return s.tags, s.err
}

func TestApplyFeedback_EnrichesMissingTags(t *testing.T) {
	st := newFakeStore()
	enricher := &stubEnricher{tags: map[string]float64{"synthpop": 1.0}}
	svc := NewService(st, nil, Options{Enricher: enricher})

	v, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: SWIPE_ACCEPT,
		Title:     "Blinding Lights",
		Artist:    "The Weeknd",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, enricher.calls)
	assert.InDelta(t, 0.05, v.Extra["synthpop"], 1e-12)
}

func TestApplyFeedback_EnricherSkippedWhenTagsPresent(t *testing.T) {
	st := newFakeStore()
	enricher := &stubEnricher{tags: map[string]float64{"synthpop": 1.0}}
	svc := NewService(st, nil, Options{Enricher: enricher})

	_, err := svc.ApplyFeedback(context.Background(), 1, SwipeEvent{
		Direction: SWIPE_ACCEPT,
		Title:     "Blinding Lights",
		Artist:    "The Weeknd",
		Tags:      map[string]float64{"hipHop": 0.2},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, enricher.calls)
}
