package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

const (
	ToolOrderStatus         = "get_order_status"
	ToolRefundStatus        = "get_refund_status"
	ToolProductAvailability = "check_product_availability"
	ToolPolicySearch        = "search_policy_documents"
)

// Executor runs one named tool with raw JSON arguments and returns an
// observation string for the model.
type Executor func(ctx context.Context, tool string, args map[string]any) (string, error)

// Catalog declares the support tools exposed to the ReAct loop.
func Catalog() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolOrderStatus,
			Desc: "Look up the shipping status of an order by its numeric order ID.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "Numeric order ID, 4+ digits", Required: true},
			}),
		},
		{
			Name: ToolRefundStatus,
			Desc: "Look up the refund status for an order by its numeric order ID.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.String, Desc: "Numeric order ID, 4+ digits", Required: true},
			}),
		},
		{
			Name: ToolProductAvailability,
			Desc: "Check stock availability for a product by its product ID (P followed by digits).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.String, Desc: "Product ID such as P123", Required: true},
			}),
		},
		{
			Name: ToolPolicySearch,
			Desc: "Search the policy knowledge base for returns, refunds, charges, and delivery terms.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Natural language policy question", Required: true},
			}),
		},
	}
}

// NewExecutor dispatches catalog tools to the backend gateway and retriever.
// Not-found lookups come back as observations, not errors, so the model can
// phrase them for the user.
func NewExecutor(gateway contractx.Gateway, retriever contractx.Retriever) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (string, error) {
		switch tool {
		case ToolOrderStatus:
			return lookupObservation(ctx, gateway.LookupOrder, args, "order_id")
		case ToolRefundStatus:
			return lookupObservation(ctx, gateway.LookupRefund, args, "order_id")
		case ToolProductAvailability:
			return lookupObservation(ctx, gateway.LookupInventory, args, "product_id")
		case ToolPolicySearch:
			return policyObservation(ctx, retriever, args)
		default:
			return "", fmt.Errorf("%w: unknown tool=%s", contractx.ErrValidation, tool)
		}
	}
}

func lookupObservation(
	ctx context.Context,
	lookup func(context.Context, string) (contractx.Record, error),
	args map[string]any,
	idKey string,
) (string, error) {
	id := argString(args, idKey)
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", contractx.ErrValidation, idKey)
	}

	rec, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return fmt.Sprintf("No record found for %s=%s.", idKey, id), nil
		}
		return "", err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return string(payload), nil
}

func policyObservation(ctx context.Context, retriever contractx.Retriever, args map[string]any) (string, error) {
	query := argString(args, "query")
	if query == "" {
		return "", fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	result, err := retriever.Retrieve(ctx, query, 10, 3, 0.85)
	if err != nil {
		return "", err
	}
	if len(result.Passages) == 0 {
		return "No policy passages matched the query.", nil
	}

	var sb strings.Builder
	for i, p := range result.Passages {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		fmt.Fprintf(&sb, "[%s] %s", p.Provenance.DocID, p.Text)
	}
	return sb.String(), nil
}

func argString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
