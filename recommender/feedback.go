package recommender

import (
	"context"
	"log"

	"tunematch/models"

	"github.com/pkg/errors"
)

const SWIPE_ACCEPT = "accept"
const SWIPE_REJECT = "reject"

// SwipeEvent é uma observação de feedback: um aceite ou rejeite sobre uma
// música candidata. Consumido na hora, nunca persistido. Entrega é
// responsabilidade do caller — reaplicar o mesmo evento dobra o efeito.
type SwipeEvent struct {
	CandidateID string             `json:"candidateId"`
	Direction   string             `json:"direction"`
	Tags        map[string]float64 `json:"candidateTags"`

	// Título/artista opcionais: quando Tags vem vazio e o enriquecimento
	// Last.fm está ligado, buscamos as tags da faixa por aqui.
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// ApplyFeedback converte um SwipeEvent em um ajuste limitado de preferência
// e aplica via store. Regra: delta[m] = sinal * learningRate * tags[m], com
// sinal +1 para accept e -1 para reject. Bpm é especial: em accept o valor
// armazenado é puxado uma fração fixa na direção do bpm da candidata; em
// reject o bpm não muda — rejeitar uma música não diz nada confiável sobre
// a preferência de andamento.
func (s *Service) ApplyFeedback(ctx context.Context, userID int64, ev SwipeEvent) (models.PreferenceVector, error) {
	var sign float64
	switch ev.Direction {
	case SWIPE_ACCEPT:
		sign = 1
	case SWIPE_REJECT:
		sign = -1
	default:
		return models.PreferenceVector{}, errors.Wrapf(ErrInvalidRequest, "unknown swipe direction %q", ev.Direction)
	}

	tags := ev.Tags
	if len(tags) == 0 && s.enricher != nil && ev.Artist != "" && ev.Title != "" {
		enriched, err := s.enricher.TrackTags(ctx, ev.Artist, ev.Title)
		if err != nil {
			log.Printf("feedback: tag enrichment failed for %q/%q: %v", ev.Artist, ev.Title, err)
		} else {
			tags = enriched
		}
	}

	delta := make(map[string]float64, len(tags))
	for metric, value := range tags {
		if metric == models.METRIC_BPM {
			continue
		}
		delta[metric] = sign * s.learningRate * value
	}

	bpm, pullBpm := tags[models.METRIC_BPM]
	pullBpm = pullBpm && ev.Direction == SWIPE_ACCEPT

	// O puxão de bpm depende do valor armazenado, então entra na seção
	// crítica do usuário: dois aceites concorrentes lêem o bpm em sequência,
	// nunca o mesmo valor antigo.
	return s.store.Apply(userID, func(vector *models.PreferenceVector) {
		if pullBpm {
			delta[models.METRIC_BPM] = s.bpmPull * (bpm - vector.Bpm)
		}
		vector.Merge(delta)
	})
}
