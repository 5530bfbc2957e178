package models

import (
	"encoding/json"
	"time"
)

/************************************************
/**** MARK: METRIC NAMES ****/
/************************************************/
const METRIC_HIPHOP = "hipHop"
const METRIC_RAP = "rap"
const METRIC_BPM = "bpm"
const METRIC_ROMANTIC = "romantic"
const METRIC_SAD = "sad"
const METRIC_HAPPY = "happy"
const METRIC_CHILL = "chill"

// GenreMetrics lists the fixed genre metrics in declaration order.
// The order is load-bearing: the prompt composer uses it to break ties.
var GenreMetrics = []string{
	METRIC_HIPHOP,
	METRIC_RAP,
}

// MoodMetrics lists the fixed mood metrics, also in declaration order.
var MoodMetrics = []string{
	METRIC_ROMANTIC,
	METRIC_SAD,
	METRIC_HAPPY,
	METRIC_CHILL,
}

// FixedMetrics: todas as métricas fixas não-bpm, na ordem de declaração.
var FixedMetrics = []string{
	METRIC_HIPHOP,
	METRIC_RAP,
	METRIC_ROMANTIC,
	METRIC_SAD,
	METRIC_HAPPY,
	METRIC_CHILL,
}

// Preference guarda o vetor de preferências de um usuário (1:1 com User).
// Métricas fixas viram colunas; métricas dinâmicas ficam em Extra como JSON.
type Preference struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;unique_index" json:"user_id"`
	HipHop    float64    `gorm:"column:hip_hop;not null;default:0" json:"hipHop"`
	Rap       float64    `gorm:"not null;default:0" json:"rap"`
	Bpm       float64    `gorm:"not null;default:0" json:"bpm"`
	Romantic  float64    `gorm:"not null;default:0" json:"romantic"`
	Sad       float64    `gorm:"not null;default:0" json:"sad"`
	Happy     float64    `gorm:"not null;default:0" json:"happy"`
	Chill     float64    `gorm:"not null;default:0" json:"chill"`
	Extra     string     `gorm:"type:text" json:"-"` // JSON object, ex: {"jazz":0.6}
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PreferenceVector is the in-memory working form of a Preference row.
// It serializes to/from a flat {"metric": score} object so dynamic metrics
// are indistinguishable from the fixed ones on the wire.
type PreferenceVector struct {
	HipHop   float64
	Rap      float64
	Bpm      float64
	Romantic float64
	Sad      float64
	Happy    float64
	Chill    float64
	Extra    map[string]float64
}

// Score returns the value for a metric name; unknown metrics read as 0.
func (v PreferenceVector) Score(metric string) float64 {
	switch metric {
	case METRIC_HIPHOP:
		return v.HipHop
	case METRIC_RAP:
		return v.Rap
	case METRIC_BPM:
		return v.Bpm
	case METRIC_ROMANTIC:
		return v.Romantic
	case METRIC_SAD:
		return v.Sad
	case METRIC_HAPPY:
		return v.Happy
	case METRIC_CHILL:
		return v.Chill
	default:
		return v.Extra[metric]
	}
}

// SetScore writes a metric value, routing unknown names into Extra.
func (v *PreferenceVector) SetScore(metric string, value float64) {
	switch metric {
	case METRIC_HIPHOP:
		v.HipHop = value
	case METRIC_RAP:
		v.Rap = value
	case METRIC_BPM:
		v.Bpm = value
	case METRIC_ROMANTIC:
		v.Romantic = value
	case METRIC_SAD:
		v.Sad = value
	case METRIC_HAPPY:
		v.Happy = value
	case METRIC_CHILL:
		v.Chill = value
	default:
		if v.Extra == nil {
			v.Extra = map[string]float64{}
		}
		v.Extra[metric] = value
	}
}

// Merge aplica um delta aditivo por métrica.
// Regras: métricas de gênero/humor (fixas e dinâmicas) ficam em [0,1];
// bpm não tem teto, apenas piso em 0.
func (v *PreferenceVector) Merge(delta map[string]float64) {
	for metric, d := range delta {
		next := v.Score(metric) + d
		if metric == METRIC_BPM {
			if next < 0 {
				next = 0
			}
		} else {
			if next < 0 {
				next = 0
			}
			if next > 1 {
				next = 1
			}
		}
		v.SetScore(metric, next)
	}
}

func (v PreferenceVector) MarshalJSON() ([]byte, error) {
	out := map[string]float64{
		METRIC_HIPHOP:   v.HipHop,
		METRIC_RAP:      v.Rap,
		METRIC_BPM:      v.Bpm,
		METRIC_ROMANTIC: v.Romantic,
		METRIC_SAD:      v.Sad,
		METRIC_HAPPY:    v.Happy,
		METRIC_CHILL:    v.Chill,
	}
	for metric, score := range v.Extra {
		out[metric] = score
	}
	return json.Marshal(out)
}

func (v *PreferenceVector) UnmarshalJSON(data []byte) error {
	var in map[string]float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = PreferenceVector{}
	for metric, score := range in {
		v.SetScore(metric, score)
	}
	return nil
}

// Vector converte a linha do banco para o formato de trabalho.
func (p Preference) Vector() PreferenceVector {
	v := PreferenceVector{
		HipHop:   p.HipHop,
		Rap:      p.Rap,
		Bpm:      p.Bpm,
		Romantic: p.Romantic,
		Sad:      p.Sad,
		Happy:    p.Happy,
		Chill:    p.Chill,
	}
	if p.Extra != "" {
		// extras corrompidos são descartados em vez de derrubar a leitura
		_ = json.Unmarshal([]byte(p.Extra), &v.Extra)
	}
	return v
}

// SetVector copia o vetor de trabalho para as colunas da linha.
func (p *Preference) SetVector(v PreferenceVector) {
	p.HipHop = v.HipHop
	p.Rap = v.Rap
	p.Bpm = v.Bpm
	p.Romantic = v.Romantic
	p.Sad = v.Sad
	p.Happy = v.Happy
	p.Chill = v.Chill
	if len(v.Extra) > 0 {
		b, _ := json.Marshal(v.Extra)
		p.Extra = string(b)
	} else {
		p.Extra = ""
	}
}
