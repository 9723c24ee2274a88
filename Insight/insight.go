package Insight

import (
	"context"
	"fmt"
	"log"
	"os"

	"Turno/Models"

	"google.golang.org/genai"
)

const FallbackMessage = "No insights available at the moment."

const defaultModel = "gemini-2.0-flash"

// BuildPrompt renders the manager-analysis prompt for one checklist record
func BuildPrompt(record *Models.ChecklistRecord, sectorName string, applicableTasks int) string {
	notes := record.Notes
	if notes == "" {
		notes = "None"
	}
	problems := record.Problems
	if problems == "" {
		problems = "None"
	}
	return fmt.Sprintf(`Analyze the following %s checklist for the %s sector:
- Tasks completed: %d/%d
- Notes: %s
- Problems reported: %s

As a senior operations manager, provide a quick analysis (100 words max) of
this shift's operational conformance and whether any urgent action is needed.`,
		record.Type, sectorName, len(record.CompletedIDs()), applicableTasks, notes, problems)
}

// Generate asks Gemini for a short manager insight. Best-effort: any failure
// degrades to the fallback string, never to an error.
func Generate(ctx context.Context, record *Models.ChecklistRecord, sectorName string, applicableTasks int) string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, insight unavailable")
		return FallbackMessage
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("Error creating GenAI client: %v", err)
		return FallbackMessage
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	prompt := BuildPrompt(record, sectorName, applicableTasks)
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("Gemini error: %v", err)
		return FallbackMessage
	}

	text := result.Text()
	if text == "" {
		return FallbackMessage
	}
	return text
}
