package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/models"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/finance"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/scheduler"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// maxToolRounds caps the tool-call loop per turn so a confused model cannot
// spin forever.
const maxToolRounds = 5

type DefaultAgentService struct {
	gemini    *GeminiClient
	ctxStore  *RedisContextStore
	scheduler scheduler.SchedulerService
	market    finance.MarketDataService
}

func NewDefaultAgentService(
	gemini *GeminiClient,
	ctxStore *RedisContextStore,
	schedulerSvc scheduler.SchedulerService,
	market finance.MarketDataService,
) *DefaultAgentService {
	return &DefaultAgentService{
		gemini:    gemini,
		ctxStore:  ctxStore,
		scheduler: schedulerSvc,
		market:    market,
	}
}

// HandleMessage runs one conversational turn, executing any tool calls the
// model requests before returning the final reply.
func (s *DefaultAgentService) HandleMessage(ctx context.Context, phoneNumber, text string) (string, error) {
	agentCtx, err := s.ctxStore.Get(ctx, phoneNumber)
	if err != nil {
		return "", fmt.Errorf("load agent context: %w", err)
	}

	session := s.gemini.model.StartChat()
	for _, turn := range agentCtx.History {
		session.History = append(session.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	prompt := fmt.Sprintf("User (Phone: %s): %s", phoneNumber, text)
	reply, err := s.runSession(ctx, session, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	agentCtx.History = append(agentCtx.History,
		models.AgentTurn{Role: "user", Text: prompt},
		models.AgentTurn{Role: "model", Text: reply},
	)
	if err := s.ctxStore.Set(ctx, phoneNumber, agentCtx); err != nil {
		utils.GetLogger().Warn("Failed to save agent context", zap.Error(err))
	}
	return reply, nil
}

// ProduceUpdate generates a brief investment update for a topic, without
// touching the stored conversation.
func (s *DefaultAgentService) ProduceUpdate(ctx context.Context, phoneNumber, topic string) (string, error) {
	session := s.gemini.model.StartChat()
	prompt := fmt.Sprintf("Provide a brief investment update for: %s", topic)
	return s.runSession(ctx, session, genai.Text(prompt))
}

// runSession sends the message and resolves tool calls until the model
// produces text or the round cap is hit.
func (s *DefaultAgentService) runSession(ctx context.Context, session *genai.ChatSession, msg genai.Part) (string, error) {
	logger := utils.GetLogger()

	resp, err := session.SendMessage(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := collectFunctionCalls(resp)
		if len(calls) == 0 {
			break
		}

		var responses []genai.Part
		for _, call := range calls {
			logger.Debug("Agent tool call", zap.String("tool", call.Name))
			result := s.dispatchTool(ctx, call)
			responses = append(responses, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]any{"result": result},
			})
		}
		resp, err = session.SendMessage(ctx, responses...)
		if err != nil {
			return "", fmt.Errorf("gemini tool round error: %w", err)
		}
	}
	return collectText(resp), nil
}

// dispatchTool executes one tool call. Tool failures come back as text so
// the model can relay them; they never abort the turn.
func (s *DefaultAgentService) dispatchTool(ctx context.Context, call genai.FunctionCall) string {
	arg := func(name string) string {
		if v, ok := call.Args[name].(string); ok {
			return v
		}
		return ""
	}

	switch call.Name {
	case "get_quote":
		q, err := s.market.Quote(ctx, arg("symbol"))
		if err != nil {
			return fmt.Sprintf("Error fetching data for %s: %v", arg("symbol"), err)
		}
		return formatQuote(q)

	case "get_quotes":
		symbols := strings.Fields(arg("symbols"))
		quotes, err := s.market.Quotes(ctx, symbols)
		if err != nil {
			return fmt.Sprintf("Error fetching multi-ticker data: %v", err)
		}
		return formatQuotes(arg("symbols"), quotes)

	case "search_news":
		items, err := s.market.News(ctx, arg("query"))
		if err != nil {
			return fmt.Sprintf("Error searching news for %s: %v", arg("query"), err)
		}
		return formatNews(arg("query"), items)

	case "screen_market":
		key := finance.ScreenKey(arg("criteria"))
		results, err := s.market.Screen(ctx, key)
		if err != nil {
			return fmt.Sprintf("Error screening market: %v", err)
		}
		return formatScreen(key, results)

	case "schedule_reminder":
		duration := arg("duration")
		if duration == "" {
			duration = "forever"
		}
		topic := arg("topic")
		if topic == "" {
			topic = "general market"
		}
		confirmation, err := s.scheduler.Schedule(ctx, arg("phone_number"), arg("interval"), duration, topic)
		if err != nil {
			return fmt.Sprintf("Error scheduling reminder: %v", err)
		}
		return confirmation

	case "cancel_reminders":
		count, err := s.scheduler.Cancel(ctx, arg("phone_number"), arg("topic"))
		if err != nil {
			return fmt.Sprintf("Error cancelling reminders: %v", err)
		}
		if count == 0 {
			return "No active reminders found for your number."
		}
		return fmt.Sprintf("Successfully stopped %d active reminder(s).", count)

	case "list_reminders":
		summaries, err := s.scheduler.List(ctx, arg("phone_number"))
		if err != nil {
			return fmt.Sprintf("Error listing schedules: %v", err)
		}
		if len(summaries) == 0 {
			return "You have no active scheduled reminders."
		}
		return "📋 *Your Active Schedules:*\n" + strings.Join(summaries, "\n")

	default:
		return fmt.Sprintf("Unknown tool: %s", call.Name)
	}
}

func formatQuote(q *finance.Quote) string {
	return fmt.Sprintf(
		"--- %s Report ---\n💰 Price: %.2f %s (Range: %.2f - %.2f)\n📉 Prev Close: %.2f\n",
		q.Symbol, q.Price, q.Currency, q.DayLow, q.DayHigh, q.PrevClose,
	)
}

func formatQuotes(symbols string, quotes []finance.Quote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Multi-Ticker Snapshot (%s) ---\n", symbols)
	for _, q := range quotes {
		fmt.Fprintf(&sb, "🔹 %s: %.2f %s\n", q.Symbol, q.Price, q.Currency)
	}
	return sb.String()
}

func formatScreen(key string, results []finance.ScreenResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("Successfully screened for %s, but no stocks matched.", key)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚀 Top 5 stocks for strategy: %s\n\n", strings.ToUpper(strings.ReplaceAll(key, "_", " ")))
	for _, r := range results {
		fmt.Fprintf(&sb, "🔹 *%s* (%s): $%.2f (%+.2f%%)\n", r.Symbol, r.Name, r.Price, r.ChangePercent)
	}
	return sb.String()
}

func formatNews(query string, items []finance.NewsItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("No news found for '%s'.", query)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Latest News for '%s' ---\n", query)
	for _, n := range items {
		fmt.Fprintf(&sb, "📰 %s (%s)\n🔗 %s\n\n", n.Title, n.Publisher, n.Link)
	}
	return sb.String()
}
