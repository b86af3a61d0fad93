package booking

import (
	"sort"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// MergeContiguous folds per-hour booking rows into display ranges.  Rows
// belong to the same range when they share holder email, date and court and
// their hours are strictly consecutive; any gap starts a new range.
// Optional presentation fields (comment, voucher URL, charge id, payment
// type) are taken from the first row of the range that carries one, so a
// value set on any hour survives the merge.  The input slice is not
// modified.
func MergeContiguous(rows []model.Booking) []model.MergedBooking {
	if len(rows) == 0 {
		return nil
	}

	sorted := make([]model.Booking, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Court != b.Court {
			return a.Court < b.Court
		}
		return a.Hour < b.Hour
	})

	out := make([]model.MergedBooking, 0, len(sorted))
	for _, row := range sorted {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.HolderEmail == row.HolderEmail &&
				prev.Date == row.Date &&
				prev.Court == row.Court &&
				prev.EndHour == row.Hour {
				prev.EndHour = row.Hour + 1
				fillOptional(prev, row)
				continue
			}
		}
		merged := model.MergedBooking{
			Date:        row.Date,
			Court:       row.Court,
			StartHour:   row.Hour,
			EndHour:     row.Hour + 1,
			HolderEmail: row.HolderEmail,
			HolderName:  row.HolderName,
			Status:      row.Status,
		}
		fillOptional(&merged, row)
		out = append(out, merged)
	}
	return out
}

// fillOptional copies each optional field from row into dst when dst does
// not have it yet.
func fillOptional(dst *model.MergedBooking, row model.Booking) {
	if dst.AdminComment == nil && row.AdminComment != nil {
		dst.AdminComment = row.AdminComment
	}
	if dst.VoucherURL == nil && row.VoucherURL != nil {
		dst.VoucherURL = row.VoucherURL
	}
	if dst.ChargeID == nil && row.ChargeID != nil {
		dst.ChargeID = row.ChargeID
	}
	if dst.PaymentType == nil && row.PaymentType != nil {
		dst.PaymentType = row.PaymentType
	}
}
