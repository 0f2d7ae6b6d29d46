// Package ai is the shopkeeper assistant: a Gemini function-calling
// agent whose tools read the catalog and the reporting helpers. The
// agent is read-only; every mutation still goes through the regular
// endpoints.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"boutique-pos/internal/reports"
	"boutique-pos/internal/storage"
)

const modelName = "gemini-2.0-flash-001"

// Agent wires the Gemini model to the storage port.
type Agent struct {
	store  storage.Store
	apiKey string
}

func New(store storage.Store, apiKey string) *Agent {
	return &Agent{store: store, apiKey: apiKey}
}

// Ask answers one natural-language question, letting the model call
// inventory/report tools as needed.
func (a *Agent) Ask(ctx context.Context, userMessage string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a small retail shop's point of sale.

	RULES:
	1. INVENTORY: For any question about a product's price, cost, stock or details, call 'check_inventory' and read the JSON to answer. Do NOT say you cannot look it up.
	2. SALES: For revenue or profit questions, call 'get_sales_report' with a date range.
	3. RESTOCK: For questions about what needs restocking, call 'check_low_stock'.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, Price, Cost, Category, or Stock.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue, profit and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "check_low_stock",
					Description: "List the products that are running low and need restocking.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// One round of tool execution covers the three read-only tools.
	for _, part := range resp.Candidates[0].Content.Parts {
		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			continue
		}

		result, err := a.executeTool(ctx, funcCall)
		if err != nil {
			return "", err
		}

		finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
			Name:     funcCall.Name,
			Response: result,
		})
		if err != nil {
			return "", err
		}
		return printResponse(finalResp), nil
	}

	return printResponse(resp), nil
}

func (a *Agent) executeTool(ctx context.Context, funcCall genai.FunctionCall) (map[string]any, error) {
	switch funcCall.Name {
	case "check_inventory":
		return a.checkInventory(ctx)
	case "get_sales_report":
		return a.salesReport(ctx, funcCall.Args)
	case "check_low_stock":
		return a.lowStock(ctx)
	default:
		return map[string]any{"error": "unknown tool " + funcCall.Name}, nil
	}
}

func (a *Agent) checkInventory(ctx context.Context) (map[string]any, error) {
	products, err := a.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	type simpleProduct struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Stock    int     `json:"stock"`
		Price    float64 `json:"price"`
		Cost     float64 `json:"cost"`
	}
	simpleList := make([]simpleProduct, 0, len(products))
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Stock:    p.Stock,
			Price:    p.SellingPrice,
			Cost:     p.BuyingPrice,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)
	return map[string]any{"inventory": string(jsonBytes)}, nil
}

func (a *Agent) salesReport(ctx context.Context, args map[string]any) (map[string]any, error) {
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return map[string]any{"error": "dates must be in YYYY-MM-DD format"}, nil
	}
	end = reports.DayEnd(end)

	sales, err := a.store.Sales(ctx)
	if err != nil {
		return nil, err
	}
	inRange := reports.SalesBetween(sales, start, end)

	return map[string]any{
		"revenue":     reports.RevenueBetween(sales, start, end),
		"profit":      reports.ProfitBetween(sales, start, end),
		"sales_count": len(inRange),
	}, nil
}

func (a *Agent) lowStock(ctx context.Context) (map[string]any, error) {
	products, err := a.store.Products(ctx)
	if err != nil {
		return nil, err
	}

	type lowItem struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	var low []lowItem
	for _, p := range reports.LowStock(products) {
		low = append(low, lowItem{Name: p.Name, Stock: p.Stock})
	}

	jsonBytes, _ := json.Marshal(low)
	return map[string]any{"low_stock": string(jsonBytes), "threshold": reports.LowStockThreshold}, nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
