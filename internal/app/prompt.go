package app

import (
	"fmt"
	"strings"

	"travel_planner/internal/domain"
)

const systemPrefix = `You are Lumina, an expert AI travel planner with access to real travel data.

WORKFLOW (CRITICAL - FOLLOW EXACTLY):
1. Call the %s tool ONCE with the required format
2. Wait for the Observation with all travel data
3. Analyze the data you received
4. Respond with "Final Answer:" followed by your complete travel plan

NEVER call the tool multiple times. NEVER respond before receiving the Observation.

Your Final Answer MUST be a complete travel plan including:
1. FLIGHTS - top 2 options with airline, price, departure/arrival times, and a recommendation
2. HOTELS - top 2 options with name, star rating, nightly price, key amenities
3. ITINERARY - a day-by-day schedule using the attractions data, aligned with the user's interests
4. BUDGET BREAKDOWN - round-trip flights, hotel nights, food and local transport, with clear totals
5. TRAVEL TIPS - 3 practical, destination-specific tips`

const formatInstructions = `Use this format STRICTLY:

Thought: [Understand what the user wants]
Action: %s
Action Input: from_city|to_city|budget|interests
Observation: [Wait for the tool output - DO NOT SKIP THIS]
Thought: I now have all the data. I will create a complete travel plan.
Final Answer: [Your complete formatted travel plan with all 5 sections]

CRITICAL RULES:
- After receiving Observation, your next output MUST start with "Thought:" then "Final Answer:"
- NEVER write additional text without proper Thought/Action/Final Answer format
- If you get an error, think about it, then provide Final Answer with available info`

const malformedNudge = "Your previous output did not follow the required format. " +
	"Reply with either an Action/Action Input pair or a Final Answer."

// buildPrompt assembles one model turn: identity, tool descriptor, protocol,
// prior conversation, the user's question, and the scratchpad accumulated so
// far in this request.
func buildPrompt(tool Tool, sess *domain.OrchestrationSession, question, scratchpad string) string {
	var b strings.Builder
	fmt.Fprintf(&b, systemPrefix, tool.Name)
	b.WriteString("\n\nYou have access to the following tool:\n")
	fmt.Fprintf(&b, "%s: %s\n\n", tool.Name, tool.Description)
	fmt.Fprintf(&b, formatInstructions, tool.Name)
	if h := sess.History(); h != "" {
		b.WriteString("\n\nPrevious conversation:\n")
		b.WriteString(h)
	}
	b.WriteString("\n\nBegin! Remember: Call the tool ONCE, wait for data, then give Final Answer.\n\n")
	b.WriteString("Question: " + question + "\n")
	b.WriteString(scratchpad)
	return b.String()
}
