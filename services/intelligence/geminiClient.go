// File: services/intelligence/gemini_client.go
package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const agentInstructions = `You are a concise investment assistant reachable over WhatsApp.
You can look up live quotes and market news, screen the market for strategies
like top gainers or undervalued growth, and schedule, list and cancel
recurring investment reminders for the user. When the user asks for
recurring updates, call schedule_reminder with their phone number, an interval
like "5 minutes" / "1 hour" / "1 day", a duration like "once", "2 days" or
"forever", and the topic. Keep replies short; this is a chat, not a report.`

type GeminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) *GeminiClient {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(agentInstructions)},
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: toolDeclarations()}}
	return &GeminiClient{model: model}
}

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "get_quote",
			Description: "Fetch the current price and day range for a single stock ticker.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {Type: genai.TypeString, Description: "Ticker symbol, e.g. AAPL"},
				},
				Required: []string{"symbol"},
			},
		},
		{
			Name:        "get_quotes",
			Description: "Fetch current prices for several tickers at once.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbols": {Type: genai.TypeString, Description: "Space-separated tickers, e.g. 'AAPL MSFT GOOG'"},
				},
				Required: []string{"symbols"},
			},
		},
		{
			Name:        "search_news",
			Description: "Search the latest market news for a query.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Search term, e.g. 'AI stocks'"},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "screen_market",
			Description: "Find top stocks matching a screening strategy such as gainers, losers, most active or undervalued growth.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"criteria": {Type: genai.TypeString, Description: "Strategy, e.g. 'gainers', 'most active', 'undervalued growth'"},
				},
			},
		},
		{
			Name:        "schedule_reminder",
			Description: "Schedule a repeatable or one-time investment update for the user.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"phone_number": {Type: genai.TypeString, Description: "The user's WhatsApp phone number"},
					"interval":     {Type: genai.TypeString, Description: "How often to send, e.g. '5 minutes', '1 hour', '1 day'"},
					"duration":     {Type: genai.TypeString, Description: "How long to keep sending, e.g. 'once', '2 days', 'forever'"},
					"topic":        {Type: genai.TypeString, Description: "The investment topic to report on"},
				},
				Required: []string{"phone_number", "interval", "topic"},
			},
		},
		{
			Name:        "cancel_reminders",
			Description: "Cancel the user's active reminders, optionally only those matching a topic.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"phone_number": {Type: genai.TypeString, Description: "The user's WhatsApp phone number"},
					"topic":        {Type: genai.TypeString, Description: "Topic filter; omit to cancel everything"},
				},
				Required: []string{"phone_number"},
			},
		},
		{
			Name:        "list_reminders",
			Description: "List the user's active scheduled reminders.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"phone_number": {Type: genai.TypeString, Description: "The user's WhatsApp phone number"},
				},
				Required: []string{"phone_number"},
			},
		},
	}
}

// collectText concatenates the text parts of a response.
func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if textPart, ok := part.(genai.Text); ok {
				sb.WriteString(string(textPart))
			}
		}
	}
	return sb.String()
}

// collectFunctionCalls extracts pending tool invocations from a response.
func collectFunctionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, fc)
			}
		}
	}
	return calls
}
