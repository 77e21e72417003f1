package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"verdantshop/internal/repos"
	"verdantshop/internal/services"
)

func TestExtractIntent(t *testing.T) {
	cases := map[string]string{
		"How much is the bamboo toothbrush?":      services.IntentPriceInquiry,
		"Is the solar lamp in stock?":             services.IntentAvailabilityInquiry,
		"Can you recommend a gift for my sister?": services.IntentRecommendation,
		"I'm looking for a reusable bottle":       services.IntentProductSearch,
		"Hello there":                             services.IntentGeneral,
		"When will the notebook restock?":         services.IntentAvailabilityInquiry,
	}
	for msg, want := range cases {
		require.Equal(t, want, services.ExtractIntent(msg), "message: %s", msg)
	}
}

func TestEnhanceQuery(t *testing.T) {
	out := services.EnhanceQuery("cheap eco light for my desk")
	require.Contains(t, out, "affordable")
	require.Contains(t, out, "sustainable")
	require.Contains(t, out, "lamp")

	// No synonym hit leaves the query untouched.
	require.Equal(t, "hello", services.EnhanceQuery("hello"))
}

func TestChatbot_AnswersAndPersistsTurns(t *testing.T) {
	db := testDB(t)
	chatRepo := repos.NewChatRepo(db)
	bot := services.NewChatbotService(chatRepo, newFakeIndex(), &fakeLLM{reply: "The lamp costs $34.99."}, nil)

	reply, err := bot.Handle(context.Background(), "chat-session", "u-alice", "How much is the solar lamp?")
	require.NoError(t, err)
	require.Equal(t, services.IntentPriceInquiry, reply.Intent)
	require.Equal(t, "The lamp costs $34.99.", reply.Response)
	require.False(t, reply.Degraded)
	require.NotEmpty(t, reply.MessageID)

	msgs, err := bot.History("chat-session", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "bot", msgs[1].Role)
}

func TestChatbot_FallsBackWhenModelFails(t *testing.T) {
	db := testDB(t)
	bot := services.NewChatbotService(repos.NewChatRepo(db), newFakeIndex(), &fakeLLM{broken: true}, nil)

	reply, err := bot.Handle(context.Background(), "chat-session", "", "recommend something")
	require.NoError(t, err)
	require.True(t, reply.Degraded)
	require.NotEmpty(t, reply.Response)
}

func TestChatbot_DegradesWithoutRetrieval(t *testing.T) {
	db := testDB(t)
	// No index, no model: template answers only, but the chat still works.
	bot := services.NewChatbotService(repos.NewChatRepo(db), nil, nil, nil)

	reply, err := bot.Handle(context.Background(), "chat-session", "", "is the toothbrush available?")
	require.NoError(t, err)
	require.True(t, reply.Degraded)
	require.Equal(t, services.IntentAvailabilityInquiry, reply.Intent)
	require.Empty(t, reply.Products)
}

func TestChatbot_FeedbackRequiresKnownMessage(t *testing.T) {
	db := testDB(t)
	bot := services.NewChatbotService(repos.NewChatRepo(db), nil, &fakeLLM{reply: "hi"}, nil)

	reply, err := bot.Handle(context.Background(), "chat-session", "", "hello")
	require.NoError(t, err)

	require.NoError(t, bot.Feedback(reply.MessageID, "u-alice", "helpful", ""))
	require.ErrorIs(t, bot.Feedback("nope", "u-alice", "helpful", ""), services.ErrUnknownMessage)
}
