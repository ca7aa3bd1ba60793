package checkout

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// nextOrderCode derives the next human-readable code from the most recent
// order's code. Unparsable or absent codes fall back to the configured start.
// Read-then-increment, so two concurrent submissions can mint the same code;
// the unique index on orders.order_code turns that loss into an insert error
// rather than silent duplication.
func nextOrderCode(lastCode, prefix string, start int) string {
	if lastCode != "" {
		if idx := strings.LastIndex(lastCode, "-"); idx >= 0 {
			if n, err := strconv.Atoi(lastCode[idx+1:]); err == nil {
				return fmt.Sprintf("%s-%d", prefix, n+1)
			}
		}
	}
	return fmt.Sprintf("%s-%d", prefix, start)
}

// deliveryWindow renders the estimate as a clock range from submission time.
func deliveryWindow(now time.Time, offset time.Duration) string {
	return now.Format("3:04 PM") + " - " + now.Add(offset).Format("3:04 PM")
}
