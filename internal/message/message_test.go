package message

import (
	"testing"

	"github.com/weblineafrica/order-sms/internal/model"
)

func TestRender(t *testing.T) {
	t.Parallel()

	ev := model.OrderStatusEvent{OrderID: 1042, OldStatus: "processing", NewStatus: "completed"}

	cases := []struct {
		name string
		tmpl string
		want string
	}{
		{
			name: "default customer template",
			tmpl: DefaultCustomerTemplate,
			want: "Your order #1042 status has changed from processing to completed.",
		},
		{
			name: "admin template",
			tmpl: AdminTemplate,
			want: "Order #1042 status changed from processing to completed.",
		},
		{
			name: "unknown placeholders untouched",
			tmpl: "Hi {customer_name}, order {order_id} is {new_status}",
			want: "Hi {customer_name}, order 1042 is completed",
		},
		{
			name: "no tokens",
			tmpl: "Thanks for shopping with us",
			want: "Thanks for shopping with us",
		},
		{
			name: "tokens in any order",
			tmpl: "{new_status}<-{old_status} #{order_id}",
			want: "completed<-processing #1042",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Render(tc.tmpl, ev); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRender_ValuesAreNotReexpanded(t *testing.T) {
	t.Parallel()

	ev := model.OrderStatusEvent{OrderID: 7, OldStatus: "{new_status}", NewStatus: "done"}

	got := Render("from {old_status} to {new_status}", ev)
	if got != "from {new_status} to done" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestCustomerTemplate_FallsBackWhenBlank(t *testing.T) {
	t.Parallel()

	if got := CustomerTemplate(""); got != DefaultCustomerTemplate {
		t.Fatalf("expected default template, got %q", got)
	}
	if got := CustomerTemplate("   "); got != DefaultCustomerTemplate {
		t.Fatalf("expected default template for whitespace, got %q", got)
	}
	if got := CustomerTemplate("custom {order_id}"); got != "custom {order_id}" {
		t.Fatalf("expected custom template kept, got %q", got)
	}
}
