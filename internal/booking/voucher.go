package booking

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// VoucherLinker derives the voucher URL attached to confirmed bookings.
// The payment provider may hand back a ready-made receipt URL on the
// charge; when it does not, the linker points at this service's own voucher
// endpoint, keyed by charge id.  Either way the URL carries enough query
// parameters to reconstruct the voucher even if the charge record is later
// unavailable.
type VoucherLinker struct {
	// BaseURL is the externally reachable root of this service, without a
	// trailing slash, e.g. "https://courts.example.com".
	BaseURL string
}

// VoucherContext is the booking context embedded into the voucher URL as
// fallback rendering data.
type VoucherContext struct {
	Court     int
	Date      string
	StartHour int
	EndHour   int
	Name      string
	Email     string
	Comment   string
}

// Link builds the voucher URL for a completed charge.  A provider-supplied
// receipt URL wins; otherwise the link targets GET /v1/vouchers/{charge_id},
// substituting the sentinel charge id when the charge carries no id at all.
// The fallback context is appended as query parameters in both cases.
func (l VoucherLinker) Link(charge *model.Charge, ctx VoucherContext) string {
	var base string
	if charge != nil && charge.VoucherURL != "" {
		base = charge.VoucherURL
	} else {
		id := model.SentinelChargeID
		if charge != nil && charge.ID != "" {
			id = charge.ID
		}
		base = fmt.Sprintf("%s/v1/vouchers/%s", strings.TrimRight(l.BaseURL, "/"), url.PathEscape(id))
	}

	q := url.Values{}
	q.Set("fallback", "1")
	q.Set("court", fmt.Sprintf("%d", ctx.Court))
	q.Set("date", ctx.Date)
	q.Set("start", fmt.Sprintf("%02d:00", ctx.StartHour))
	q.Set("end", fmt.Sprintf("%02d:00", ctx.EndHour))
	if ctx.Name != "" {
		q.Set("name", ctx.Name)
	}
	if ctx.Email != "" {
		q.Set("email", ctx.Email)
	}
	if ctx.Comment != "" {
		q.Set("comment", ctx.Comment)
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
