package recommender

import (
	"context"
	"time"

	"tunematch/models"

	"github.com/pkg/errors"
)

// PreferenceStore é o que o serviço precisa da camada de persistência.
type PreferenceStore interface {
	Get(userID int64) (models.PreferenceVector, error)
	Apply(userID int64, fn func(*models.PreferenceVector)) (models.PreferenceVector, error)
}

// TagEnricher resolve tags de uma faixa a partir de artista e título.
// Implementado por tools.LastFMClient; nil desliga o enriquecimento.
type TagEnricher interface {
	TrackTags(ctx context.Context, artist, track string) (map[string]float64, error)
}

// Options agrupa os parâmetros ajustáveis do serviço.
type Options struct {
	LearningRate float64       // peso máximo de um swipe (default 0.05)
	BpmPull      float64       // fração do gap de bpm puxada por accept (default 0.1)
	Timeout      time.Duration // deadline de cada chamada ao gateway (default 10s)
	Enricher     TagEnricher
}

// Service orquestra o pipeline: preferências -> prompt -> gateway, mais a
// aplicação de feedback de swipe.
type Service struct {
	store        PreferenceStore
	gateway      Gateway
	learningRate float64
	bpmPull      float64
	timeout      time.Duration
	enricher     TagEnricher
}

func NewService(store PreferenceStore, gateway Gateway, opts Options) *Service {
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.05
	}
	if opts.BpmPull <= 0 {
		opts.BpmPull = 0.1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Service{
		store:        store,
		gateway:      gateway,
		learningRate: opts.LearningRate,
		bpmPull:      opts.BpmPull,
		timeout:      opts.Timeout,
		enricher:     opts.Enricher,
	}
}

// Recommend produz uma recomendação para o usuário. Um Request explícito é
// validado e usado na íntegra; sem ele, o vetor armazenado é composto.
// Falhas retryable do gateway são tentadas no máximo mais uma vez, sem
// backoff; tempo total fica limitado a 2x o timeout configurado.
// Recomendações nunca mutam preferências.
func (s *Service) Recommend(ctx context.Context, userID int64, explicit *Request) (Result, error) {
	var req Request
	if explicit != nil {
		if err := Validate(*explicit); err != nil {
			return Result{}, err
		}
		req = *explicit
	} else {
		vector, err := s.store.Get(userID)
		if err != nil {
			return Result{}, err
		}
		req = Compose(vector)
	}

	prompt := Render(req)

	result, err := s.suggest(ctx, prompt)
	if err != nil && retryable(err) && ctx.Err() == nil {
		result, err = s.suggest(ctx, prompt)
	}
	return result, err
}

func (s *Service) suggest(ctx context.Context, prompt string) (Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.gateway.Suggest(callCtx, prompt)
}

func retryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) ||
		errors.Is(err, ErrGatewayTimeout) ||
		errors.Is(err, ErrEmptyResponse)
}
