package notifier_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/weblineafrica/order-sms/internal/gateway"
	"github.com/weblineafrica/order-sms/internal/model"
	"github.com/weblineafrica/order-sms/internal/notifier"
	"github.com/weblineafrica/order-sms/internal/orders"
	"github.com/weblineafrica/order-sms/internal/settings"
)

type sendCall struct {
	Phone   string
	Message string
	OrderID int64
}

type fakeClient struct {
	mu      sync.Mutex
	calls   []sendCall
	results []gateway.Result
}

func (f *fakeClient) Send(ctx context.Context, phoneNumber, message string, orderID int64) gateway.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, sendCall{Phone: phoneNumber, Message: message, OrderID: orderID})
	if len(f.results) == 0 {
		return gateway.Success(`{"success":true}`)
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res
}

func (f *fakeClient) Calls() []sendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sendCall(nil), f.calls...)
}

// captureLogs swaps the default slog logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestHandler_EmptyPhoneSkipsDispatch(t *testing.T) {
	logs := captureLogs(t)

	client := &fakeClient{}
	h := notifier.NewHandler(
		orders.NewMemoryOrderLookup(model.Order{ID: 77, BillingPhone: ""}),
		settings.NewStatic(settings.Settings{AdminPhone: "254700000000", AdminNotificationsEnabled: true}),
		client,
	)

	h.OnOrderStatusChanged(context.Background(), 77, "pending", "processing")

	if n := len(client.Calls()); n != 0 {
		t.Fatalf("expected no sends, got %d", n)
	}
	out := logs.String()
	if !strings.Contains(out, "no phone number for order") || !strings.Contains(out, "order_id=77") {
		t.Fatalf("expected skip log referencing order id, got %q", out)
	}
}

func TestHandler_WhitespacePhoneIsAttempted(t *testing.T) {
	t.Parallel()

	client := &fakeClient{results: []gateway.Result{
		gateway.Failure(gateway.InvalidPhoneNumber, "Invalid phone number format."),
	}}
	h := notifier.NewHandler(
		orders.NewMemoryOrderLookup(model.Order{ID: 12, BillingPhone: "   "}),
		settings.NewStatic(settings.Settings{}),
		client,
	)

	h.OnOrderStatusChanged(context.Background(), 12, "pending", "processing")

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected the send to be attempted and rejected by validation, got %d sends", len(calls))
	}
	if calls[0].Phone != "   " {
		t.Fatalf("expected raw phone passed through, got %q", calls[0].Phone)
	}
}

func TestHandler_OrderLookupFailureIsLoggedNotSent(t *testing.T) {
	logs := captureLogs(t)

	client := &fakeClient{}
	h := notifier.NewHandler(orders.NewMemoryOrderLookup(), settings.NewStatic(settings.Settings{}), client)

	h.OnOrderStatusChanged(context.Background(), 5, "a", "b")

	if n := len(client.Calls()); n != 0 {
		t.Fatalf("expected no sends, got %d", n)
	}
	if !strings.Contains(logs.String(), "order lookup failed") {
		t.Fatalf("expected lookup failure log, got %q", logs.String())
	}
}

func TestHandler_UsesConfiguredTemplate(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	h := notifier.NewHandler(
		orders.NewMemoryOrderLookup(model.Order{ID: 9, BillingPhone: "0712345678"}),
		settings.NewStatic(settings.Settings{MessageTemplate: "#{order_id}: {old_status} -> {new_status} {unknown}"}),
		client,
	)

	h.OnOrderStatusChanged(context.Background(), 9, "on-hold", "cancelled")

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 send, got %d", len(calls))
	}
	if calls[0].Message != "#9: on-hold -> cancelled {unknown}" {
		t.Fatalf("unexpected message %q", calls[0].Message)
	}
	if calls[0].Phone != "0712345678" || calls[0].OrderID != 9 {
		t.Fatalf("unexpected call %+v", calls[0])
	}
}

func TestHandler_AdminNotification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		cfg       settings.Settings
		wantCalls int
	}{
		{"disabled", settings.Settings{AdminPhone: "254700000000"}, 1},
		{"enabled without phone", settings.Settings{AdminNotificationsEnabled: true}, 1},
		{"enabled with phone", settings.Settings{AdminPhone: "254700000000", AdminNotificationsEnabled: true}, 2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{}
			h := notifier.NewHandler(
				orders.NewMemoryOrderLookup(model.Order{ID: 3, BillingPhone: "0712345678"}),
				settings.NewStatic(tc.cfg),
				client,
			)

			h.OnOrderStatusChanged(context.Background(), 3, "processing", "completed")

			calls := client.Calls()
			if len(calls) != tc.wantCalls {
				t.Fatalf("expected %d sends, got %d", tc.wantCalls, len(calls))
			}
			if tc.wantCalls == 2 {
				if calls[1].Phone != "254700000000" {
					t.Fatalf("expected admin phone, got %q", calls[1].Phone)
				}
				if calls[1].Message != "Order #3 status changed from processing to completed." {
					t.Fatalf("unexpected admin message %q", calls[1].Message)
				}
			}
		})
	}
}

func TestHandler_AdminSentEvenWhenCustomerFails(t *testing.T) {
	t.Parallel()

	client := &fakeClient{results: []gateway.Result{
		gateway.Failure(gateway.APIError, "insufficient credit"),
		gateway.Success(`{"success":true}`),
	}}

	var (
		mu     sync.Mutex
		sent   []model.RecipientKind
		failed []model.RecipientKind
	)

	h := notifier.NewHandler(
		orders.NewMemoryOrderLookup(model.Order{ID: 3, BillingPhone: "0712345678"}),
		settings.NewStatic(settings.Settings{AdminPhone: "254700000000", AdminNotificationsEnabled: true}),
		client,
	).WithHooks(
		func(ctx context.Context, ev model.OrderStatusEvent, to model.RecipientKind, response string) {
			mu.Lock()
			defer mu.Unlock()
			sent = append(sent, to)
		},
		func(ctx context.Context, ev model.OrderStatusEvent, to model.RecipientKind, res gateway.Result) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, to)
			if res.Message() != "insufficient credit" {
				t.Errorf("unexpected failure message %q", res.Message())
			}
		},
	)

	h.OnOrderStatusChanged(context.Background(), 3, "processing", "completed")

	mu.Lock()
	defer mu.Unlock()
	if len(failed) != 1 || failed[0] != model.Customer {
		t.Fatalf("expected customer failure, got %+v", failed)
	}
	if len(sent) != 1 || sent[0] != model.Admin {
		t.Fatalf("expected admin success, got %+v", sent)
	}
}

type brokenSettings struct{}

func (brokenSettings) Settings(context.Context) (settings.Settings, error) {
	return settings.Settings{}, errors.New("store offline")
}

func TestHandler_SettingsFailureSkipsDispatch(t *testing.T) {
	logs := captureLogs(t)

	client := &fakeClient{}
	h := notifier.NewHandler(
		orders.NewMemoryOrderLookup(model.Order{ID: 1, BillingPhone: "0712345678"}),
		brokenSettings{},
		client,
	)

	h.OnOrderStatusChanged(context.Background(), 1, "a", "b")

	if n := len(client.Calls()); n != 0 {
		t.Fatalf("expected no sends, got %d", n)
	}
	if !strings.Contains(logs.String(), "store offline") {
		t.Fatalf("expected settings error logged, got %q", logs.String())
	}
}

func TestHandler_EndToEnd(t *testing.T) {
	logs := captureLogs(t)

	var gotQuery string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	provider := settings.NewStatic(settings.Settings{
		APIKey:          "live-key",
		MessageTemplate: "Your order #{order_id} status has changed from {old_status} to {new_status}.",
	})
	client := gateway.NewClient(provider, gateway.Options{URL: srv.URL, Timeout: time.Second})
	h := notifier.NewHandler(
		orders.NewMemoryOrderLookup(model.Order{ID: 1042, BillingPhone: "+254 712 345 678"}),
		provider,
		client,
	)

	h.OnOrderStatusChanged(context.Background(), 1042, "processing", "completed")

	want := "recipient=254712345678&sender_id=TAARIFA&message=Your+order+%231042+status+has+changed+from+processing+to+completed."
	if gotQuery != want {
		t.Fatalf("unexpected query\nwant %q\n got %q", want, gotQuery)
	}
	if gotAuth != "Bearer live-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}

	out := logs.String()
	if !strings.Contains(out, "sms sent") || !strings.Contains(out, `{\"success\":true}`) {
		t.Fatalf("expected success log with raw response, got %q", out)
	}
}
