package tools

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"
)

// SupportTools returns the built-in customer-support tools. Results are
// simulated but deterministic per input, so repeated lookups agree.
func SupportTools() []Tool {
	return []Tool{
		{
			Name:        "get_order_status",
			Description: "Get the current status of an order by order ID",
			Parameters: map[string]any{
				"order_id": map[string]any{"type": "string", "description": "Order ID to look up"},
			},
			Handler: getOrderStatus,
		},
		{
			Name:        "cancel_subscription",
			Description: "Cancel a subscription by subscription ID",
			Parameters: map[string]any{
				"subscription_id": map[string]any{"type": "string", "description": "Subscription ID to cancel"},
				"reason":          map[string]any{"type": "string", "description": "Optional cancellation reason"},
			},
			Handler: cancelSubscription,
		},
		{
			Name:        "update_shipping_address",
			Description: "Update the shipping address for an order",
			Parameters: map[string]any{
				"order_id": map[string]any{"type": "string", "description": "Order ID to update"},
				"address":  map[string]any{"type": "string", "description": "Street address"},
				"city":     map[string]any{"type": "string", "description": "City"},
				"zip_code": map[string]any{"type": "string", "description": "ZIP / postal code"},
			},
			Handler: updateShippingAddress,
		},
	}
}

var orderStatuses = []string{"processing", "shipped", "delivered", "pending"}

func getOrderStatus(_ context.Context, params map[string]any) (any, error) {
	orderID, err := stringParam(params, "order_id")
	if err != nil {
		return nil, err
	}

	seed := hashString(orderID)
	status := orderStatuses[seed%uint32(len(orderStatuses))]
	days := int(seed%7) + 1

	return map[string]any{
		"order_id":           orderID,
		"status":             status,
		"estimated_delivery": time.Now().AddDate(0, 0, days).Format("2006-01-02"),
		"tracking_number":    fmt.Sprintf("TRK%06d", seed%1000000),
	}, nil
}

func cancelSubscription(_ context.Context, params map[string]any) (any, error) {
	subscriptionID, err := stringParam(params, "subscription_id")
	if err != nil {
		return nil, err
	}
	reason, _ := params["reason"].(string)

	return map[string]any{
		"success":         true,
		"subscription_id": subscriptionID,
		"reason":          reason,
		"cancelled_at":    time.Now().Format(time.RFC3339),
		"message":         "Subscription cancelled. Refund will be processed in 3-5 business days.",
	}, nil
}

func updateShippingAddress(_ context.Context, params map[string]any) (any, error) {
	orderID, err := stringParam(params, "order_id")
	if err != nil {
		return nil, err
	}
	address, err := stringParam(params, "address")
	if err != nil {
		return nil, err
	}
	city, _ := params["city"].(string)
	zipCode, _ := params["zip_code"].(string)

	return map[string]any{
		"success":  true,
		"order_id": orderID,
		"address":  fmt.Sprintf("%s, %s %s", address, city, zipCode),
		"message":  "Shipping address updated.",
	}, nil
}

func stringParam(params map[string]any, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	return value, nil
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
