package alerts

import (
	"html/template"
	"strings"

	"domainwatch/internal/alerts/models"
)

// The two alert mails share a layout and differ in header color and copy.
const alertEmailTemplate = `<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: {{.HeaderColor}}; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border-radius: 0 0 8px 8px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; background: white; }
    th { background: #f3f4f6; padding: 12px; text-align: left; font-weight: 600; }
    td { padding: 10px; border-bottom: 1px solid #e5e7eb; }
    .footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1 style="margin: 0;">{{.Title}}</h1>
    </div>
    <div class="content">
      <p>Hello,</p>
      <p>{{.Intro}}</p>
      <table>
        <thead>
          <tr>
            <th>Domain</th>
            <th>Days Remaining</th>
            <th>Expiry Date</th>
          </tr>
        </thead>
        <tbody>
          {{range .Items}}<tr>
            <td><strong>{{.DomainName}}</strong></td>
            <td>{{.DaysRemaining}} days</td>
            <td>{{.ExpiryDate}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <p>{{.Outro}}</p>
      <p><strong>Domain Dashboard</strong></p>
    </div>
    <div class="footer">
      <p>This is an automated notification from Domain Dashboard</p>
    </div>
  </div>
</body>
</html>`

var alertTmpl = template.Must(template.New("alert").Parse(alertEmailTemplate))

type alertEmailData struct {
	Title       string
	HeaderColor string
	Intro       string
	Outro       string
	Items       []models.Item
}

func domainExpiryEmail(items []models.Item) string {
	return renderAlert(alertEmailData{
		Title:       "Domain Expiry Alert",
		HeaderColor: "#2563eb",
		Intro:       "The following domains in your portfolio are expiring soon:",
		Outro:       "Please renew these domains to avoid losing them.",
		Items:       items,
	})
}

func certificateExpiryEmail(items []models.Item) string {
	return renderAlert(alertEmailData{
		Title:       "SSL Certificate Expiry Alert",
		HeaderColor: "#dc2626",
		Intro:       "The following SSL certificates are expiring soon:",
		Outro:       "Please renew these SSL certificates to maintain secure connections.",
		Items:       items,
	})
}

func renderAlert(data alertEmailData) string {
	var b strings.Builder
	// The template is static and parses at init; execution over plain
	// structs cannot fail.
	_ = alertTmpl.Execute(&b, data)
	return b.String()
}
