package notify

import (
	"fmt"
	"strings"

	"calmtable/internal/usecase/queries"
)

// Email builders render the branded HTML bodies. Plain string templates keep
// them trivially testable; nothing here escapes user input into markup other
// than via %s on short fields, matching the simple transactional layouts.

const brandColor = "#8B5E3C"

func layout(title, inner string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Georgia,serif;max-width:600px;margin:0 auto;">`)
	fmt.Fprintf(&b, `<h2 style="color:%s;">Calm Table</h2>`, brandColor)
	fmt.Fprintf(&b, `<h3>%s</h3>`, title)
	b.WriteString(inner)
	b.WriteString(`<p style="color:#888;font-size:12px;">Calm Table &middot; Thank you for dining with us.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func ReservationConfirmationEmail(view *queries.ReservationView) Email {
	inner := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your reservation request has been received.</p>
<ul>
<li>Date: %s</li>
<li>Time: %s</li>
<li>Party size: %d</li>
<li>Confirmation code: <strong>%s</strong></li>
</ul>
<p>We will notify you once the reservation is confirmed.</p>`,
		view.GuestName,
		view.Date.Format("Monday, January 2, 2006"),
		view.Slot,
		view.PartySize,
		view.ConfirmationCode,
	)
	return Email{
		To:       view.GuestEmail,
		Subject:  "Your Calm Table reservation request",
		HTMLBody: layout("Reservation received", inner),
	}
}

func ReservationStatusEmail(view *queries.ReservationView) Email {
	var title, lead string
	switch view.Status {
	case "confirmed":
		title = "Reservation confirmed"
		lead = "We look forward to welcoming you."
	case "cancelled":
		title = "Reservation cancelled"
		lead = "Your reservation has been cancelled. We hope to see you another time."
	default:
		title = "Reservation update"
		lead = fmt.Sprintf("Your reservation is now %s.", view.Status)
	}

	inner := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>%s</p>
<ul>
<li>Date: %s</li>
<li>Time: %s</li>
<li>Confirmation code: <strong>%s</strong></li>
</ul>`,
		view.GuestName,
		lead,
		view.Date.Format("Monday, January 2, 2006"),
		view.Slot,
		view.ConfirmationCode,
	)
	return Email{
		To:       view.GuestEmail,
		Subject:  "Your Calm Table reservation: " + view.Status,
		HTMLBody: layout(title, inner),
	}
}

func OrderConfirmationEmail(view *queries.OrderView) Email {
	var rows strings.Builder
	for _, line := range view.Lines {
		fmt.Fprintf(&rows,
			`<tr><td>%s</td><td align="center">%d</td><td align="right">%s</td></tr>`,
			line.ItemName, line.Quantity, line.LineTotal.StringFixed(2),
		)
	}

	inner := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Thank you for your order <strong>%s</strong>.</p>
<table width="100%%" cellpadding="4" style="border-collapse:collapse;">
<tr style="border-bottom:1px solid #ddd;"><th align="left">Item</th><th>Qty</th><th align="right">Total</th></tr>
%s
<tr style="border-top:1px solid #ddd;"><td colspan="2"><strong>Total</strong></td><td align="right"><strong>%s</strong></td></tr>
</table>`,
		view.CustomerName,
		view.OrderNumber,
		rows.String(),
		view.TotalAmount.StringFixed(2),
	)
	return Email{
		To:       view.CustomerEmail,
		Subject:  "Calm Table order " + view.OrderNumber,
		HTMLBody: layout("Order received", inner),
	}
}

func OrderStatusEmail(view *queries.OrderView) Email {
	inner := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>
<p>Total: %s</p>`,
		view.CustomerName,
		view.OrderNumber,
		view.Status,
		view.TotalAmount.StringFixed(2),
	)
	return Email{
		To:       view.CustomerEmail,
		Subject:  fmt.Sprintf("Calm Table order %s: %s", view.OrderNumber, view.Status),
		HTMLBody: layout("Order update", inner),
	}
}
