package service

import (
	"bytes"
	"fmt"
	"html/template"
)

// Adapted from the dashboard's transactional email set. Inline styles
// only, email clients strip everything else.
var verificationEmailTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color:#f3f4f6;padding:24px 0;">
    <tr><td align="center">
      <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="background-color:#ffffff;border-radius:12px;overflow:hidden;">
        <tr><td style="background-color:#2563eb;padding:24px;text-align:center;">
          <h1 style="margin:0;color:#ffffff;font-size:22px;">Domain Dashboard</h1>
        </td></tr>
        <tr><td style="padding:32px;">
          <h2 style="margin:0 0 10px 0;color:#111827;font-size:24px;text-align:center;">Verify Your Email</h2>
          <p style="margin:0 0 28px 0;color:#4b5563;font-size:15px;text-align:center;">Enter this code to complete your registration</p>
          <table role="presentation" width="100%" cellspacing="0" cellpadding="0"><tr><td align="center">
            <div style="display:inline-block;background-color:#f3f4f6;border:2px dashed #2563eb;border-radius:12px;padding:18px 36px;">
              <span style="font-size:34px;font-weight:700;letter-spacing:8px;color:#2563eb;font-family:'Courier New',monospace;">{{.Code}}</span>
            </div>
          </td></tr></table>
          <p style="margin:28px 0 0 0;color:#92400e;background-color:#fef3c7;border-radius:8px;padding:12px 16px;font-size:14px;">
            This code will expire in <strong>{{.ExpiryMinutes}} minutes</strong>. If you didn't request this code, please ignore this email.
          </p>
          <p style="margin:24px 0 0 0;color:#9ca3af;font-size:13px;text-align:center;">
            If you're having trouble, copy and paste this code directly into the verification field on our website.
          </p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

func verificationEmail(code string, expiryMinutes int) (string, error) {
	var buf bytes.Buffer
	err := verificationEmailTemplate.Execute(&buf, struct {
		Code          string
		ExpiryMinutes int
	}{Code: code, ExpiryMinutes: expiryMinutes})
	if err != nil {
		return "", fmt.Errorf("rendering verification email: %w", err)
	}
	return buf.String(), nil
}
