package runtime

import (
	"context"
	"testing"

	"github.com/samlaycock/nookjs/internal/values"
)

func TestInvokerFromContextRoundTrip(t *testing.T) {
	if _, ok := InvokerFromContext(context.Background()); ok {
		t.Fatal("a plain context should carry no Invoker")
	}

	called := false
	var inv Invoker = func(_ context.Context, _ Value, _ Value, _ []Value) (Value, error) {
		called = true
		return values.Undefined{}, nil
	}

	ctx := WithInvoker(context.Background(), inv)
	got, ok := InvokerFromContext(ctx)
	if !ok {
		t.Fatal("InvokerFromContext should find the Invoker attached by WithInvoker")
	}
	if _, err := got(ctx, nil, values.Undefined{}, nil); err != nil {
		t.Fatalf("invoking the retrieved Invoker failed: %v", err)
	}
	if !called {
		t.Error("the retrieved Invoker should be the same function passed to WithInvoker")
	}
}
