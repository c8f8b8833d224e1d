package message

import (
	"strconv"
	"strings"

	"github.com/weblineafrica/order-sms/internal/model"
)

const (
	TokenOrderID   = "{order_id}"
	TokenOldStatus = "{old_status}"
	TokenNewStatus = "{new_status}"
)

const (
	DefaultCustomerTemplate = "Your order #" + TokenOrderID + " status has changed from " + TokenOldStatus + " to " + TokenNewStatus + "."

	// AdminTemplate is fixed; store admins cannot edit it.
	AdminTemplate = "Order #" + TokenOrderID + " status changed from " + TokenOldStatus + " to " + TokenNewStatus + "."
)

// Render substitutes the known tokens in tmpl with values from ev. The
// replacement is a single pass, so a status value that itself looks like a
// token is copied verbatim. Anything else in braces is left untouched.
func Render(tmpl string, ev model.OrderStatusEvent) string {
	r := strings.NewReplacer(
		TokenOrderID, strconv.FormatInt(ev.OrderID, 10),
		TokenOldStatus, ev.OldStatus,
		TokenNewStatus, ev.NewStatus,
	)
	return r.Replace(tmpl)
}

// CustomerTemplate returns tmpl, or DefaultCustomerTemplate when tmpl is blank.
func CustomerTemplate(tmpl string) string {
	if strings.TrimSpace(tmpl) == "" {
		return DefaultCustomerTemplate
	}
	return tmpl
}
