package recommender

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Classificação de falhas do gateway. O serviço (uma camada acima) decide
// retry; o gateway nunca tenta de novo sozinho.
var ErrGatewayUnavailable = errors.New("suggestion gateway unavailable")
var ErrGatewayTimeout = errors.New("suggestion gateway timed out")
var ErrEmptyResponse = errors.New("suggestion gateway returned no content")

// Result é a recomendação devolvida pelo gateway. Quando o texto não casa
// com "<title> by <artist>" nem "<title> - <artist>", Raw carrega a resposta
// inteira e Title/Artist ficam vazios — resposta degradada, não erro.
type Result struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Raw    string `json:"raw,omitempty"`
}

// Song devolve a forma exibível da recomendação.
func (r Result) Song() string {
	if r.Title != "" && r.Artist != "" {
		return r.Title + " by " + r.Artist
	}
	return r.Raw
}

// Gateway envia um prompt pronto para a capacidade externa de geração.
type Gateway interface {
	Suggest(ctx context.Context, prompt string) (Result, error)
}

// OpenAIGateway implementa Gateway sobre a API de chat completion da OpenAI.
type OpenAIGateway struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAIGateway(apiKey, baseURL, model string, maxTokens int) *OpenAIGateway {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGateway{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Suggest manda o prompt como um único turno "user" com limite de tokens.
// O deadline vem do contexto do caller.
func (g *OpenAIGateway) Suggest(ctx context.Context, prompt string) (Result, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Result{}, errors.Wrap(ErrGatewayTimeout, err.Error())
		}
		return Result{}, errors.Wrap(ErrGatewayUnavailable, err.Error())
	}

	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Result{}, ErrEmptyResponse
	}

	return ParseResult(text), nil
}

// ParseResult tenta extrair título e artista da primeira linha da resposta.
// Aceita `<title> by <artist>` e `<title> - <artist>`; qualquer outra coisa
// vira um Result não estruturado com o texto aparado.
func ParseResult(text string) Result {
	trimmed := strings.TrimSpace(text)

	line := trimmed
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	// "Stand by Me by Ben E. King": o último " by " separa artista de título
	if i := lastIndexFold(line, " by "); i > 0 {
		title := cleanToken(line[:i])
		artist := cleanToken(line[i+len(" by "):])
		if title != "" && artist != "" {
			return Result{Title: title, Artist: artist}
		}
	}

	if i := strings.Index(line, " - "); i > 0 {
		title := cleanToken(line[:i])
		artist := cleanToken(line[i+len(" - "):])
		if title != "" && artist != "" {
			return Result{Title: title, Artist: artist}
		}
	}

	return Result{Raw: trimmed}
}

// lastIndexFold retorna o índice da última ocorrência de sep em s, ignorando
// maiúsculas/minúsculas. Compara janelas da string original, então os índices
// valem para s mesmo quando o título tem runas fora do ASCII.
func lastIndexFold(s, sep string) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

func cleanToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'*`)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
