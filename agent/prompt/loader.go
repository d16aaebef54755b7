package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/clarify_order_id.txt
	clarifyOrderIDRaw string

	//go:embed template/clarify_product_id.txt
	clarifyProductIDRaw string

	//go:embed template/no_info.txt
	noInfoRaw string

	//go:embed template/apology.txt
	apologyRaw string

	//go:embed template/react_system.txt
	reactSystemRaw string
)

// PromptSet holds the canned reply strings and the ReAct system prompt. The
// exact clarification wording is configuration, not logic.
type PromptSet struct {
	ClarifyOrderID   string
	ClarifyProductID string
	NoInfo           string
	Apology          string
	ReactSystem      string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to call
// concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		ClarifyOrderID:   strings.TrimSpace(clarifyOrderIDRaw),
		ClarifyProductID: strings.TrimSpace(clarifyProductIDRaw),
		NoInfo:           strings.TrimSpace(noInfoRaw),
		Apology:          strings.TrimSpace(apologyRaw),
		ReactSystem:      strings.TrimSpace(reactSystemRaw),
	}
}
