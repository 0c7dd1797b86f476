package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tailored-agentic-units/roundtable/tools"
)

// RegisterTools exposes the pricing client through the global tool registry
// so tool-capable participants can call it. Lookup misses surface as
// model-visible tool errors; transport failures propagate as real errors and
// fail the turn.
func RegisterTools(client *Client) error {
	if err := tools.Register(tools.Tool{
		Name:        "list_service_names",
		Description: "Lists the names of services available in the pricing catalog.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}, handleListServiceNames(client)); err != nil {
		return err
	}

	return tools.Register(tools.Tool{
		Name:        "get_pricing",
		Description: "Gets unit pricing for a service, optionally filtered by region and currency. Follows pagination and returns the complete result set.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"service_name": map[string]any{
					"type":        "string",
					"description": "Service name to price, e.g. 'Virtual Machines'.",
				},
				"region": map[string]any{
					"type":        "string",
					"description": "Optional region filter, e.g. 'westeurope'.",
				},
				"currency": map[string]any{
					"type":        "string",
					"description": "Optional currency filter, e.g. 'USD'.",
				},
			},
			"required": []string{"service_name"},
		},
	}, handleGetPricing(client))
}

func handleListServiceNames(client *Client) tools.Handler {
	return func(ctx context.Context, _ json.RawMessage) (tools.Result, error) {
		names, err := client.ListServiceNames(ctx)
		if err != nil {
			return tools.Result{}, err
		}
		return tools.Result{Content: strings.Join(names, "\n")}, nil
	}
}

func handleGetPricing(client *Client) tools.Handler {
	return func(ctx context.Context, raw json.RawMessage) (tools.Result, error) {
		var args struct {
			ServiceName string `json:"service_name"`
			Region      string `json:"region"`
			Currency    string `json:"currency"`
		}
		if err := json.Unmarshal(raw, &args); err != nil {
			return tools.Result{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
		}
		if args.ServiceName == "" {
			return tools.Result{Content: "service_name is required", IsError: true}, nil
		}

		items, err := client.GetAllPricing(ctx, Query{
			ServiceName: args.ServiceName,
			Region:      args.Region,
			Currency:    args.Currency,
		})
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return tools.Result{Content: notFound.Error(), IsError: true}, nil
			}
			return tools.Result{}, err
		}

		encoded, err := json.Marshal(items)
		if err != nil {
			return tools.Result{}, err
		}
		return tools.Result{Content: string(encoded)}, nil
	}
}
