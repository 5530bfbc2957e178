package recommender

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tunematch/models"

	"github.com/pkg/errors"
)

// ErrInvalidRequest indica preferências explícitas malformadas (tempo fora
// da faixa, lista de gêneros vazia, direção de swipe desconhecida).
var ErrInvalidRequest = errors.New("invalid recommendation request")

const TEMPO_MIN = 40
const TEMPO_MAX = 220

// scoreThreshold: métricas abaixo disso não entram no prompt.
const scoreThreshold = 0.5

// Request é o pedido de recomendação já normalizado, derivado do vetor de
// preferências ou fornecido direto pelo caller.
type Request struct {
	Genres []string `json:"genres"`
	Mood   string   `json:"mood,omitempty"`
	Tempo  int      `json:"tempo"`
	Other  []string `json:"other,omitempty"`
}

// Compose transforma o vetor armazenado em um Request de forma determinística:
// - gêneros: métricas de gênero com score >= 0.5, por score decrescente;
//   empate mantém a ordem de declaração
// - mood: a métrica de humor com maior score; empate fica com a primeira na
//   ordem de declaração; omitido quando todas são zero
// - tempo: bpm arredondado para o inteiro mais próximo
// - other: métricas dinâmicas >= 0.5, por score decrescente, depois por nome
func Compose(v models.PreferenceVector) Request {
	var req Request

	type scored struct {
		name  string
		score float64
	}

	genres := make([]scored, 0, len(models.GenreMetrics))
	for _, name := range models.GenreMetrics {
		if s := v.Score(name); s >= scoreThreshold {
			genres = append(genres, scored{name, s})
		}
	}
	sort.SliceStable(genres, func(i, j int) bool { return genres[i].score > genres[j].score })
	for _, g := range genres {
		req.Genres = append(req.Genres, g.name)
	}

	best := 0.0
	for _, name := range models.MoodMetrics {
		if s := v.Score(name); s > best {
			best = s
			req.Mood = name
		}
	}

	req.Tempo = int(math.Round(v.Bpm))

	extras := make([]scored, 0, len(v.Extra))
	for name, s := range v.Extra {
		if s >= scoreThreshold {
			extras = append(extras, scored{name, s})
		}
	}
	sort.Slice(extras, func(i, j int) bool {
		if extras[i].score != extras[j].score {
			return extras[i].score > extras[j].score
		}
		return extras[i].name < extras[j].name
	})
	for _, e := range extras {
		req.Other = append(req.Other, e.name)
	}

	return req
}

// Validate checa um Request fornecido explicitamente pelo caller.
func Validate(req Request) error {
	if len(req.Genres) == 0 {
		return errors.Wrap(ErrInvalidRequest, "genres must not be empty")
	}
	if req.Tempo < TEMPO_MIN || req.Tempo > TEMPO_MAX {
		return errors.Wrapf(ErrInvalidRequest, "tempo %d out of range [%d,%d]", req.Tempo, TEMPO_MIN, TEMPO_MAX)
	}
	return nil
}

// Render monta o texto do prompt. Template puro e preservador de ordem:
// mesma entrada produz sempre a mesma saída, byte a byte.
func Render(req Request) string {
	var sb strings.Builder
	sb.WriteString("Suggest a song (title and artist) for someone who enjoys:")
	if len(req.Genres) > 0 {
		sb.WriteString(fmt.Sprintf("\n- Genres: %s", strings.Join(req.Genres, ", ")))
	}
	if req.Mood != "" {
		sb.WriteString(fmt.Sprintf("\n- Mood: %s", req.Mood))
	}
	if req.Tempo > 0 {
		sb.WriteString(fmt.Sprintf("\n- Tempo: %d BPM", req.Tempo))
	}
	if len(req.Other) > 0 {
		sb.WriteString(fmt.Sprintf("\n- Other traits: %s", strings.Join(req.Other, ", ")))
	}
	return sb.String()
}
