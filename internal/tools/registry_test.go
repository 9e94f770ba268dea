package tools

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryExecute(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(Tool{
		Name:        "echo",
		Description: "Echo the input",
		Handler: func(_ context.Context, params map[string]any) (any, error) {
			return params["value"], nil
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := registry.Execute(context.Background(), "echo", map[string]any{"value": "hi"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != "hi" {
		t.Errorf("result = %v, want %q", result, "hi")
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.Execute(context.Background(), "missing", nil); err == nil {
		t.Error("expected an error for an unknown tool")
	}
}

func TestRegistryRejectsInvalidTools(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(Tool{Name: ""}); err == nil {
		t.Error("expected an error for an empty tool name")
	}
	if err := registry.Register(Tool{Name: "no-handler"}); err == nil {
		t.Error("expected an error for a tool without a handler")
	}
}

func TestRegistryWrapsHandlerErrors(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("boom")

	registry.Register(Tool{
		Name:        "failing",
		Description: "Always fails",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, boom
		},
	})

	if _, err := registry.Execute(context.Background(), "failing", nil); !errors.Is(err, boom) {
		t.Errorf("expected wrapped handler error, got %v", err)
	}
}

func TestSupportToolsRegisterAndRun(t *testing.T) {
	registry := NewRegistry()
	for _, tool := range SupportTools() {
		if err := registry.Register(tool); err != nil {
			t.Fatalf("Register(%s) failed: %v", tool.Name, err)
		}
	}

	if got := len(registry.All()); got != 3 {
		t.Fatalf("registered %d tools, want 3", got)
	}

	result, err := registry.Execute(context.Background(), "get_order_status",
		map[string]any{"order_id": "ORD-1234"})
	if err != nil {
		t.Fatalf("get_order_status failed: %v", err)
	}

	status, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if status["order_id"] != "ORD-1234" {
		t.Errorf("order_id = %v, want ORD-1234", status["order_id"])
	}

	// Deterministic per order id: the same lookup twice agrees.
	again, _ := registry.Execute(context.Background(), "get_order_status",
		map[string]any{"order_id": "ORD-1234"})
	if again.(map[string]any)["status"] != status["status"] {
		t.Error("order status changed between identical lookups")
	}

	if _, err := registry.Execute(context.Background(), "get_order_status", map[string]any{}); err == nil {
		t.Error("expected an error for a missing order_id")
	}
}
