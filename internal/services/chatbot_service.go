package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"verdantshop/internal/domain"
	"verdantshop/internal/llm"
	applog "verdantshop/internal/log"
	"verdantshop/internal/redisx"
	"verdantshop/internal/repos"
	"verdantshop/internal/vector"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	IntentProductSearch       = "product_search"
	IntentPriceInquiry        = "price_inquiry"
	IntentAvailabilityInquiry = "availability_inquiry"
	IntentRecommendation      = "recommendation"
	IntentGeneral             = "general"
)

const retrieveTopK = 5

var ErrUnknownMessage = errors.New("message not found")

// ChatbotService answers shopper questions with retrieval-augmented
// generation: embed the query, pull nearby product vectors, re-rank them
// with keyword heuristics, then ask the language model to answer grounded
// in those products. Every external dependency may be absent; the service
// degrades to template answers rather than failing the request.
type ChatbotService struct {
	Chats *repos.ChatRepo
	Index vector.Index
	LLM   llm.Client
	Cache *redis.Client
}

func NewChatbotService(chats *repos.ChatRepo, idx vector.Index, lm llm.Client, cache *redis.Client) *ChatbotService {
	return &ChatbotService{Chats: chats, Index: idx, LLM: lm, Cache: cache}
}

type ChatReply struct {
	MessageID string                    `json:"message_id"`
	Response  string                    `json:"response"`
	Intent    string                    `json:"intent"`
	Products  []domain.RetrievedProduct `json:"products,omitempty"`
	Degraded  bool                      `json:"degraded,omitempty"`
}

var intentKeywords = map[string][]string{
	IntentPriceInquiry:        {"price", "cost", "how much", "expensive", "cheap", "afford"},
	IntentAvailabilityInquiry: {"in stock", "available", "availability", "out of stock", "when will", "restock"},
	IntentRecommendation:      {"recommend", "suggest", "best", "top", "what should", "ideas", "gift"},
	IntentProductSearch:       {"find", "looking for", "search", "show me", "do you have", "do you sell", "need a", "want a"},
}

// ExtractIntent classifies a message with keyword heuristics. Price and
// availability cues win over the generic search cues so "how much is the
// bamboo brush" is a price inquiry, not a search.
func ExtractIntent(message string) string {
	lower := strings.ToLower(message)
	for _, intent := range []string{IntentPriceInquiry, IntentAvailabilityInquiry, IntentRecommendation, IntentProductSearch} {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(lower, kw) {
				return intent
			}
		}
	}
	return IntentGeneral
}

var synonyms = map[string][]string{
	"eco":     {"sustainable", "green"},
	"cheap":   {"affordable", "budget"},
	"bottle":  {"flask", "tumbler"},
	"bag":     {"tote", "sack"},
	"light":   {"lamp", "bulb"},
	"shirt":   {"tee", "t-shirt"},
	"soap":    {"cleanser", "wash"},
	"brush":   {"toothbrush"},
	"paper":   {"notebook", "stationery"},
	"charger": {"solar", "power bank"},
}

// EnhanceQuery widens the retrieval query with domain synonyms so the
// embedding covers phrasings the catalog text actually uses.
func EnhanceQuery(message string) string {
	lower := strings.ToLower(message)
	extra := []string{}
	for word, alts := range synonyms {
		if strings.Contains(lower, word) {
			extra = append(extra, alts...)
		}
	}
	if len(extra) == 0 {
		return message
	}
	sort.Strings(extra)
	return message + " " + strings.Join(extra, " ")
}

// rerank adds keyword boosts on top of the cosine score: exact name hit
// +0.3, category hit +0.2, in-stock +0.1, capped at 1.0.
func rerank(message string, matches []vector.Match) []domain.RetrievedProduct {
	lower := strings.ToLower(message)
	out := make([]domain.RetrievedProduct, 0, len(matches))
	for _, m := range matches {
		rp := domain.RetrievedProduct{ProductID: m.ID, Score: m.Score, Relevance: m.Score}
		if v, ok := m.Metadata["name"].(string); ok {
			rp.Name = v
		}
		if v, ok := m.Metadata["category"].(string); ok {
			rp.Category = v
		}
		if v, ok := m.Metadata["price"].(float64); ok {
			rp.Price = v
		}
		if v, ok := m.Metadata["availability"].(bool); ok {
			rp.Availability = v
		}
		if rp.Name != "" && strings.Contains(lower, strings.ToLower(rp.Name)) {
			rp.Relevance += 0.3
		}
		if rp.Category != "" && strings.Contains(lower, strings.ToLower(rp.Category)) {
			rp.Relevance += 0.2
		}
		if rp.Availability {
			rp.Relevance += 0.1
		}
		if rp.Relevance > 1.0 {
			rp.Relevance = 1.0
		}
		out = append(out, rp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

func (s *ChatbotService) retrieve(ctx context.Context, message string) ([]domain.RetrievedProduct, error) {
	if s.Index == nil || !s.Index.Ready() || s.LLM == nil || !s.LLM.Ready() {
		return nil, vector.ErrNotConfigured
	}
	values, err := s.LLM.Embed(ctx, EnhanceQuery(message))
	if err != nil {
		return nil, err
	}
	matches, err := s.Index.Query(ctx, values, retrieveTopK)
	if err != nil {
		return nil, err
	}
	return rerank(message, matches), nil
}

const systemPrompt = `You are the shopping assistant for VerdantShop, an online store for sustainable everyday products. Answer using only the product context provided. Be concise and friendly. If the context does not contain what the customer asked for, say so and suggest browsing the catalog. Never invent products, prices, or stock levels.`

func buildPrompt(message string, products []domain.RetrievedProduct, history []string) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, turn := range history {
			b.WriteString(turn)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	if len(products) > 0 {
		b.WriteString("Product context:\n")
		for _, p := range products {
			avail := "out of stock"
			if p.Availability {
				avail = "in stock"
			}
			fmt.Fprintf(&b, "- %s (%s), $%.2f, %s\n", p.Name, p.Category, p.Price, avail)
		}
		b.WriteByte('\n')
	}
	b.WriteString("Customer: ")
	b.WriteString(message)
	return b.String()
}

// fallback builds a deterministic answer when the model or index is down.
func fallback(intent string, products []domain.RetrievedProduct) string {
	if len(products) > 0 {
		names := make([]string, 0, len(products))
		for i, p := range products {
			if i == 3 {
				break
			}
			names = append(names, fmt.Sprintf("%s ($%.2f)", p.Name, p.Price))
		}
		return "Here are some products that might match: " + strings.Join(names, ", ") + ". For details, open the product pages in our catalog."
	}
	switch intent {
	case IntentPriceInquiry:
		return "I couldn't look up prices right now. Each product page in the catalog shows the current price."
	case IntentAvailabilityInquiry:
		return "I couldn't check stock right now. Product pages show live availability, and you can set a back-in-stock alert on any sold-out item."
	case IntentRecommendation:
		return "I can't fetch personalized suggestions right now, but our catalog highlights popular sustainable picks in every category."
	default:
		return "I'm having trouble reaching my product knowledge right now. Please browse the catalog, or try asking again in a moment."
	}
}

// Handle answers one chat message. The user turn is always persisted; bot
// turns are persisted with the reply id so feedback can reference them.
func (s *ChatbotService) Handle(ctx context.Context, sessionID, userID, message string) (ChatReply, error) {
	if err := s.Chats.EnsureSession(sessionID, userID); err != nil {
		return ChatReply{}, err
	}
	intent := ExtractIntent(message)
	if err := s.Chats.InsertMessage(domain.ChatMessage{
		ID: uuid.NewString(), SessionID: sessionID, Role: domain.ChatRoleUser, Content: message, Intent: intent,
	}); err != nil {
		return ChatReply{}, err
	}

	products, retErr := s.retrieve(ctx, message)
	if retErr != nil && !errors.Is(retErr, vector.ErrNotConfigured) {
		applog.JobError("chat.retrieve.fail", retErr, map[string]any{"session": sessionID})
	}

	history := s.history(ctx, sessionID)

	reply := ChatReply{Intent: intent, Products: products}
	if s.LLM != nil && s.LLM.Ready() {
		answer, err := s.LLM.Complete(ctx, systemPrompt, buildPrompt(message, products, history))
		if err != nil {
			applog.JobError("chat.complete.fail", err, map[string]any{"session": sessionID})
			reply.Response = fallback(intent, products)
			reply.Degraded = true
		} else {
			reply.Response = answer
		}
	} else {
		reply.Response = fallback(intent, products)
		reply.Degraded = true
	}

	reply.MessageID = uuid.NewString()
	if err := s.Chats.InsertMessage(domain.ChatMessage{
		ID: reply.MessageID, SessionID: sessionID, Role: domain.ChatRoleBot, Content: reply.Response, Intent: intent,
	}); err != nil {
		return ChatReply{}, err
	}

	s.remember(ctx, sessionID, "Customer: "+message)
	s.remember(ctx, sessionID, "Assistant: "+reply.Response)
	return reply, nil
}

// history prefers the Redis cache and falls back to the chat table.
func (s *ChatbotService) history(ctx context.Context, sessionID string) []string {
	if turns, err := redisx.Turns(ctx, s.Cache, sessionID); err == nil && len(turns) > 0 {
		return turns
	}
	msgs, err := s.Chats.History(sessionID, redisx.HistoryLen)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		prefix := "Customer: "
		if m.Role == domain.ChatRoleBot {
			prefix = "Assistant: "
		}
		out = append(out, prefix+m.Content)
	}
	return out
}

func (s *ChatbotService) remember(ctx context.Context, sessionID, turn string) {
	if err := redisx.PushTurn(ctx, s.Cache, sessionID, turn); err != nil {
		applog.JobError("chat.cache.fail", err, map[string]any{"session": sessionID})
	}
}

func (s *ChatbotService) History(sessionID string, n int) ([]domain.ChatMessage, error) {
	if n <= 0 || n > 100 {
		n = 50
	}
	return s.Chats.History(sessionID, n)
}

// Feedback records a thumbs up/down on a bot message.
func (s *ChatbotService) Feedback(messageID, userID, feedbackType, comment string) error {
	ok, err := s.Chats.MessageExists(messageID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownMessage
	}
	return s.Chats.InsertFeedback(uuid.NewString(), messageID, userID, feedbackType, comment)
}

type ChatHealth struct {
	VectorIndex bool `json:"vector_index"`
	LLM         bool `json:"llm"`
	Cache       bool `json:"cache"`
	Vectors     int  `json:"vectors,omitempty"`
}

// Health probes each chatbot dependency without failing the endpoint.
func (s *ChatbotService) Health(ctx context.Context) ChatHealth {
	h := ChatHealth{
		LLM:   s.LLM != nil && s.LLM.Ready(),
		Cache: s.Cache != nil && s.Cache.Ping(ctx).Err() == nil,
	}
	if s.Index != nil && s.Index.Ready() {
		if stats, err := s.Index.Stats(ctx); err == nil {
			h.VectorIndex = true
			h.Vectors = stats.TotalVectorCount
		}
	}
	return h
}
