package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/etnz/equity/docs"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// NewAdvisor creates the expert that answers questions about the user's
// equity ledger. The ledger CSV, when available, is given as context; the
// tool documentation is exposed as a callable function so the advisor can
// look up how the figures were computed.
func NewAdvisor(ledgerCSV string) *Expert {
	functions := []Function{topicFn{}}

	instruction := `
	You are an equity compensation advisor. The user has a ledger of vests,
	option exercises and sales of company stock, with prices in USD and GBP.

	Answer questions about the ledger: totals, gains, vesting history,
	exchange rate effects. When the user asks how a figure was computed,
	call get_topic to read the tool documentation before answering.

	You are not a tax advisor. When a question needs a tax ruling, say so
	and point the user to a professional.
	`
	if ledgerCSV != "" {
		instruction += "\n\nThe user's ledger:\n\n" + ledgerCSV
	}

	return &Expert{
		Name:        "Advisor",
		Description: "Answers questions about the user's equity ledger.",
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(functions)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		},
		Library: NewLibrary(functions),
	}
}

// topicFn exposes the embedded documentation as a model function.
type topicFn struct{}

func (topicFn) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "get_topic",
		Description: "Read the tool documentation for a topic. Use topic 'readme' for the list of topics.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"topic": {
					Type:        genai.TypeString,
					Description: "The documentation topic to read.",
				},
			},
			Required: []string{"topic"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The topic content as markdown.",
		},
	}
}

func (topicFn) Call(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
	fresp := &genai.FunctionResponse{ID: id, Name: "get_topic"}

	topic, ok := args["topic"].(string)
	if !ok {
		fresp.Response = map[string]any{"error": fmt.Errorf("invalid type got %T, expected string", args["topic"])}
		return fresp
	}

	content, err := docs.GetTopic(topic)
	if err != nil {
		fresp.Response = map[string]any{"error": err}
		return fresp
	}
	log.Printf("advisor read topic %q", topic)
	fresp.Response = map[string]any{"output": content}
	return fresp
}
