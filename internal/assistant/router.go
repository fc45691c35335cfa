package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"comunia/internal/ai"
)

// ErrMessageRequired is returned for empty or blank chat messages.
var ErrMessageRequired = errors.New("message required")

type Intent string

const (
	IntentAffirmation Intent = "affirmation"
	IntentSearch      Intent = "search"
	IntentAdvice      Intent = "advice"
	IntentGeneral     Intent = "general"
)

// Outcome says how a reply was produced.
type Outcome string

const (
	OutcomeDirect        Outcome = "direct"   // answered without the generator
	OutcomeAnswered      Outcome = "answered" // generator replied
	OutcomeFailed        Outcome = "failed"   // generator call failed or timed out
	OutcomeNotConfigured Outcome = "not_configured"
)

type Reply struct {
	Text    string
	Intent  Intent
	Outcome Outcome
}

const (
	clarifyReply       = "¡Claro! ¿Qué producto o servicio estás buscando? Escríbeme, por ejemplo, \"busco pizza\"."
	apologyReply       = "Lo siento, no pude responder en este momento. Por favor intenta de nuevo en unos minutos."
	notConfiguredReply = "El asistente de IA no está disponible por ahora. Puedes buscar en el directorio escribiendo, por ejemplo, \"busco una laptop\"."
)

const (
	greeterContext = "Eres el chatbot de Comuni IA. Responde con mensajes útiles y breves sobre marketing, visibilidad, " +
		"buenas prácticas de perfil, uso de etiquetas locales (#SantaCruzBolivia, #EmprendimientoCruceño), " +
		"participación en ferias locales (ex. Feria Barrio, Cambódromo), y cómo usar la plataforma Comuni IA. " +
		"Evita temas fuera de este alcance."
	adviceContext = "Eres un consultor de negocios para emprendimientos locales de Santa Cruz, Bolivia. " +
		"Da entre 3 y 5 consejos prácticos y accionables, con pasos concretos que el emprendedor pueda aplicar esta semana " +
		"(redes sociales locales, alianzas, ferias cruceñas, atención al cliente, precios). Sé breve y directo."
)

func composePrompt(system, message string) string {
	return system + "\n\nUsuario: " + message + "\nAsistente:"
}

// Router classifies chat messages and answers them from the catalog or the
// generator.
type Router struct {
	engine  *Engine
	rules   *Rules
	gen     ai.Generator
	memory  ConversationStore
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// NewRouter wires a router. gen may be nil when no generator is configured.
func NewRouter(engine *Engine, rules *Rules, gen ai.Generator, memory ConversationStore, timeout time.Duration, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Router{
		engine:  engine,
		rules:   rules,
		gen:     gen,
		memory:  memory,
		timeout: timeout,
		log:     logger.Named("assistant"),
		now:     time.Now,
	}
}

// Classify returns the intent of a normalized message and, for searches,
// the phrase to search for.
func (r *Router) Classify(normalized string) (Intent, string) {
	if r.rules.IsAffirmation(normalized) {
		return IntentAffirmation, ""
	}
	if phrase, ok := r.searchPhrase(normalized); ok {
		return IntentSearch, phrase
	}
	for _, kw := range r.rules.AdviceKeywords {
		if _, ok := hasWordPrefix(normalized, kw); ok {
			return IntentAdvice, ""
		}
	}
	return IntentGeneral, ""
}

// searchPhrase finds the earliest search keyword (longest on ties) and
// returns the words after it minus stop words, or the whole message when
// nothing is left.
func (r *Router) searchPhrase(normalized string) (string, bool) {
	best, bestLen := -1, 0
	for _, kw := range r.rules.SearchKeywords {
		i, ok := hasWordPrefix(normalized, kw)
		if !ok {
			continue
		}
		if best < 0 || i < best || (i == best && len(kw) > bestLen) {
			best, bestLen = i, len(kw)
		}
	}
	if best < 0 {
		return "", false
	}

	rest := normalized[best+bestLen:]
	// a keyword matching a word prefix ("producto" in "productos") skips the rest of that word
	if rest != "" && rest[0] != ' ' {
		if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			rest = rest[sp:]
		} else {
			rest = ""
		}
	}
	var kept []string
	for _, w := range strings.Fields(rest) {
		if !r.rules.isStopWord(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return normalized, true
	}
	return strings.Join(kept, " "), true
}

// Handle answers one chat message for a session. Only a blank message or a
// catalog failure is returned as an error; generator problems become replies.
func (r *Router) Handle(ctx context.Context, sessionID, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrMessageRequired
	}
	normalized := Normalize(message)
	intent, phrase := r.Classify(normalized)

	switch intent {
	case IntentAffirmation:
		m, ok := r.recall(ctx, sessionID)
		if !ok {
			return Reply{Text: clarifyReply, Intent: intent, Outcome: OutcomeDirect}, nil
		}
		return r.search(ctx, intent, m.Phrase, true)

	case IntentSearch:
		r.remember(ctx, sessionID, phrase)
		return r.search(ctx, intent, phrase, false)

	case IntentAdvice:
		return r.generate(ctx, intent, composePrompt(adviceContext, message)), nil

	default:
		return r.generate(ctx, intent, composePrompt(greeterContext, message)), nil
	}
}

func (r *Router) search(ctx context.Context, intent Intent, phrase string, retry bool) (Reply, error) {
	res, err := r.engine.Search(ctx, phrase)
	if err != nil {
		return Reply{}, err
	}
	r.log.Debug("search",
		zap.String("phrase", phrase),
		zap.Int("products", len(res.Products)),
		zap.Int("businesses", len(res.Businesses)),
		zap.String("category", res.Category))
	return Reply{Text: formatResult(res, retry), Intent: intent, Outcome: OutcomeDirect}, nil
}

func (r *Router) generate(ctx context.Context, intent Intent, prompt string) Reply {
	if r.gen == nil {
		return Reply{Text: notConfiguredReply, Intent: intent, Outcome: OutcomeNotConfigured}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.gen.Generate(ctx, prompt)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return Reply{Text: notConfiguredReply, Intent: intent, Outcome: OutcomeNotConfigured}
	case err != nil:
		r.log.Warn("generator failed", zap.String("intent", string(intent)), zap.Error(err))
		return Reply{Text: apologyReply, Intent: intent, Outcome: OutcomeFailed}
	case strings.TrimSpace(text) == "":
		return Reply{Text: apologyReply, Intent: intent, Outcome: OutcomeFailed}
	}
	return Reply{Text: strings.TrimSpace(text), Intent: intent, Outcome: OutcomeAnswered}
}

func (r *Router) recall(ctx context.Context, sessionID string) (Memory, bool) {
	if r.memory == nil || sessionID == "" {
		return Memory{}, false
	}
	m, ok, err := r.memory.LastPhrase(ctx, sessionID)
	if err != nil {
		r.log.Warn("conversation memory read failed", zap.Error(err))
		return Memory{}, false
	}
	return m, ok && m.Phrase != ""
}

func (r *Router) remember(ctx context.Context, sessionID, phrase string) {
	if r.memory == nil || sessionID == "" {
		return
	}
	if err := r.memory.SetLastPhrase(ctx, sessionID, Memory{Phrase: phrase, At: r.now()}); err != nil {
		r.log.Warn("conversation memory write failed", zap.Error(err))
	}
}
