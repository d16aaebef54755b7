package composer

import (
	"fmt"
	"strings"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	promptx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/prompt"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

const (
	passageLimit    = 2
	passageMaxLen   = 300
	passageEllipsis = "..."
)

// Compose turns the structured results of a turn into the final user-facing
// text. Pure function of its inputs.
func Compose(turn *statex.TurnState, prompts promptx.PromptSet) (string, error) {
	if turn == nil {
		return "", fmt.Errorf("%w: turn state is nil", contractx.ErrComposerFailure)
	}
	// A clarification short-circuit already answered the turn.
	if turn.Done() {
		return turn.FinalAnswer(), nil
	}

	var pieces []string

	backendPart := formatBackend(turn)
	if backendPart != "" {
		pieces = append(pieces, backendPart)
	}

	if len(turn.Passages) > 0 {
		if backendPart == "" && turn.Intent.PolicyOriented() {
			if snippets := formatPassages(turn.Passages); snippets != "" {
				pieces = append(pieces, snippets)
			}
		}
		if footer := provenanceFooter(turn.Passages); footer != "" {
			pieces = append(pieces, footer)
		}
	} else if backendPart == "" {
		return prompts.NoInfo, nil
	}

	return strings.Join(pieces, "\n\n"), nil
}

func formatBackend(turn *statex.TurnState) string {
	br := turn.Backend
	if br == nil {
		return ""
	}

	switch turn.Intent {
	case contractx.IntentOrderStatus, contractx.IntentDeliveryDelay:
		if br.NotFound {
			return fmt.Sprintf("I couldn't find the order %s. Please check the order ID.", turn.Slot(contractx.SlotOrderID))
		}
		rec := br.Record
		s := fmt.Sprintf("Order %s is currently: %s.", rec["order_id"], rec["status"])
		if v := rec["expected_delivery"]; v != "" {
			s += fmt.Sprintf(" Expected delivery: %s.", v)
		}
		if v := rec["delay_reason"]; v != "" {
			s += fmt.Sprintf(" Reason: %s.", v)
		}
		return s

	case contractx.IntentRefundStatus:
		if br.NotFound {
			return fmt.Sprintf("I couldn't find the refund for order %s. Please check the order ID.", turn.Slot(contractx.SlotOrderID))
		}
		rec := br.Record
		s := fmt.Sprintf("Refund status for order %s: %s.", rec["order_id"], rec["refund_status"])
		if v := rec["refund_amount"]; v != "" {
			s += fmt.Sprintf(" Amount: %s.", v)
		}
		if v := rec["processed_at"]; v != "" {
			s += fmt.Sprintf(" Processed at: %s.", v)
		}
		return s

	case contractx.IntentProductAvailability, contractx.IntentInventoryCheck:
		if br.NotFound {
			return fmt.Sprintf("I couldn't find product %s. Please check the product ID.", turn.Slot(contractx.SlotProductID))
		}
		rec := br.Record
		availability := "Out of stock"
		if rec["in_stock"] == "true" {
			availability = "In stock"
		}
		s := fmt.Sprintf("Product %s: %s.", rec["product_id"], availability)
		if v := rec["quantity"]; v != "" {
			s += fmt.Sprintf(" Quantity available: %s.", v)
		}
		if v := rec["restock_date"]; v != "" {
			s += fmt.Sprintf(" Restock expected: %s.", v)
		}
		return s
	}
	return ""
}

func formatPassages(passages []contractx.ScoredPassage) string {
	limit := passageLimit
	if limit > len(passages) {
		limit = len(passages)
	}
	snippets := make([]string, 0, limit)
	for _, p := range passages[:limit] {
		if snippet := truncate(p.Text, passageMaxLen); snippet != "" {
			snippets = append(snippets, snippet)
		}
	}
	return strings.Join(snippets, "\n\n")
}

func provenanceFooter(passages []contractx.ScoredPassage) string {
	var docIDs []string
	seen := make(map[string]struct{}, len(passages))
	for _, p := range passages {
		docID := p.Provenance.DocID
		if docID == "" {
			docID = "policy"
		}
		if _, ok := seen[docID]; ok {
			continue
		}
		seen[docID] = struct{}{}
		docIDs = append(docIDs, docID)
	}
	if len(docIDs) == 0 {
		return ""
	}
	return fmt.Sprintf("_Policy reference: %s_", strings.Join(docIDs, ", "))
}

func truncate(text string, n int) string {
	text = strings.TrimSpace(text)
	if len(text) <= n {
		return text
	}
	return strings.TrimRight(text[:n], " \t\n") + passageEllipsis
}
