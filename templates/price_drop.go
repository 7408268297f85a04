package templates

import (
	"fmt"

	"farewatch/internal/domain/entity"
)

// SUBJECT_TEMPLATE is the alert email subject line
const SUBJECT_TEMPLATE = "Price drop: %s → %s now %s"

// BODY_TEMPLATE is the alert email HTML body
const BODY_TEMPLATE = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Good news — your flight got cheaper!</h2>
  <p>The fare for your tracked flight has dropped:</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><b>Route</b></td><td>%s → %s</td></tr>
    <tr><td><b>Airline</b></td><td>%s</td></tr>
    <tr><td><b>Departure</b></td><td>%s</td></tr>
    <tr><td><b>New price</b></td><td>%s</td></tr>
    <tr><td><b>You save</b></td><td><b>%s</b></td></tr>
  </table>
  <p>Rebook now to lock in the lower fare.</p>
  <p style="color: #999; font-size: 12px;">Sent by FareWatch. You receive this because you track this flight.</p>
</body>
</html>`

// RenderPriceDrop builds the subject and HTML body for a price drop alert
func RenderPriceDrop(alert *entity.PriceAlert) (subject, body string) {
	newPrice := formatMoney(alert.NewPrice, alert.Currency)
	savings := formatMoney(alert.SavingsThisDrop, alert.Currency)

	airline := alert.Airline
	if airline == "" {
		airline = "Any"
	}

	subject = fmt.Sprintf(SUBJECT_TEMPLATE, alert.DepartureAirport, alert.ArrivalAirport, newPrice)
	body = fmt.Sprintf(BODY_TEMPLATE,
		alert.DepartureAirport,
		alert.ArrivalAirport,
		airline,
		alert.DepartureDate.Format("02 Jan 2006"),
		newPrice,
		savings,
	)
	return subject, body
}

func formatMoney(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
