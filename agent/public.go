package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/docs"
	"github.com/etnz/equity/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user tracks the adjusted cost base of his employer equity compensation (RSU vests,
			ESPP purchases and sales) for Canadian taxes. He is here primarily to understand his
			ledger, his gains and the income he has to report.

			Devise a plan of questions to ask to each experts and come up with the best reponse
			to the user's request.

			The user will assume that you know his ledger, check it with the Accountant first.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor creates the expert grounding answers in current information.
func NewAdvisor() *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is an expert on Canadian personal taxation of equity compensation,
		aware of the CRA rules and of the latest news about rates and filing deadlines.
		Ask the Advisor whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in Canadian personal taxation, in particular the treatment of
			employer equity compensation: RSU vesting, ESPP purchases, adjusted cost base and
			capital gains. You leverage Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
			You never give personalized financial advice, only factual information.
				`}}},
		},
	}
}

// NewAccountant creates the expert in charge of the user's ACB ledger.
func NewAccountant() *Expert {

	lib := []Function{Ledger, Summary}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's ACB ledger.
		He can report the ledger entries and compute the annual gain and income figures.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's adjusted cost base ledger.
				You know how to use the Tools to extract relevant information about the user's
				equity events and tax figures. You are part of a team of experts, yours is
				everything recorded in the ledger. They might ask you questions about it,
				pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the user's ledger
				  - the chronological list of processed events
				  - the per-year summary of gains and taxable income
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

var Ledger = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Ledger",
		Description: `Ledger lists all processed equity events in chronological order, with
		the exchange rate, the taxable income or gain of each event, and the resulting
		position (shares held and cost basis).`,
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted table of all ledger entries.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		entries, err := DecodeEntries()
		if err != nil {
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Ledger",
				Response: map[string]any{
					"error": err.Error(),
				},
			}
		}
		return &genai.FunctionResponse{
			ID:   id,
			Name: "Ledger",
			Response: map[string]any{
				"output": renderer.LedgerMarkdown(entries),
			},
		}
	},
}

var Summary = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Summary",
		Description: `Summary aggregates the ledger by calendar year: disposals, proceeds,
		gain or loss in USD and CAD, and the taxable acquisition income in CAD.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"boundary": {
					Type: genai.TypeString,
					Description: `Optional mid-year boundary date splitting that year in two periods.
					Uses a flexible date format based on YYYY-MM-DD:

					` + must(docs.GetTopic("dates")),
				},
			},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted table with one row per year.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		boundary, err := parseBoundary(args)
		if err != nil {
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Summary",
				Response: map[string]any{
					"error": err.Error(),
				},
			}
		}

		entries, err := DecodeEntries()
		if err != nil {
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Summary",
				Response: map[string]any{
					"error": err.Error(),
				},
			}
		}
		summary := equity.Summarize(entries, boundary)
		return &genai.FunctionResponse{
			ID:   id,
			Name: "Summary",
			Response: map[string]any{
				"output": renderer.SummaryMarkdown(summary),
			},
		}
	},
}

// LedgerFile is the ledger the accountant's functions read. The CLI points
// it at its -ledger-file flag before starting a session.
var LedgerFile = "acb-ledger.jsonl"

// DecodeEntries decodes the ledger from LedgerFile.
// If the file does not exist, it returns an empty ledger.
func DecodeEntries() ([]equity.LedgerEntry, error) {
	f, err := os.Open(LedgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// If the file doesn't exist, it's an empty ledger.
			return nil, nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", LedgerFile, err)
	}
	defer f.Close()

	entries, err := equity.DecodeEntries(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", LedgerFile, err)
	}
	return entries, nil
}

func parseBoundary(args map[string]any) (equity.Date, error) {
	iboundary, hasBoundary := args["boundary"]
	if !hasBoundary {
		return equity.Date{}, nil
	}
	sboundary, ok := iboundary.(string)
	if !ok {
		return equity.Date{}, fmt.Errorf("argument 'boundary' is not a string as expected but %T", iboundary)
	}

	date, err := equity.ParseDate(sboundary)
	if err != nil {
		return equity.Date{}, fmt.Errorf("argument 'boundary' must be a valid date got %q. Below is the doc about the format date\n\n%s ", sboundary, must(docs.GetTopic("dates")))
	}

	return date, nil
}
