package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Template data is HTML-escaped by html/template, so user-supplied names and
// free-text fields are safe to interpolate.

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: auto;">
  <h2>Hello {{.Name}},</h2>
  <p>Your One-Time Password (OTP) for accessing the client portal is:</p>
  <h1 style="font-size: 36px; letter-spacing: 8px; text-align: center;">{{.Code}}</h1>
  <p><strong>Valid for {{.Minutes}} minutes.</strong></p>
  <p>Enter this OTP on the login page to access your account.</p>
  <p>If you did not request this OTP, please ignore this email or contact support.</p>
  <p>Best regards,<br/><strong>{{.Brand}}</strong></p>
</div>`))

var enquiryAckTemplate = template.Must(template.New("enquiry_ack").Parse(`
<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: auto;">
  <h2>Hello {{.Name}},</h2>
  <p>Thank you for your enquiry regarding <b>{{.Service}}</b>.</p>
  <p>Our team will review your request and get back to you shortly.</p>
  <p>Regards,<br/><b>{{.Brand}}</b></p>
</div>`))

var supportAlertTemplate = template.Must(template.New("support_alert").Parse(`
<div style="font-family: Arial, sans-serif; color: #333;">
  <h2>New Support Query Received</h2>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 6px; font-weight: bold;">Name:</td><td style="padding: 6px;">{{.Name}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Phone:</td><td style="padding: 6px;">{{.Phone}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Location:</td><td style="padding: 6px;">{{.Location}}</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Issue:</td><td style="padding: 6px;">{{.Issue}}</td></tr>
  </table>
  <p style="color: #888; font-size: 13px;">Automated notification from the client support system.</p>
</div>`))

// RenderOTPEmail produces the HTML body for a login OTP message.
func RenderOTPEmail(brand, name, code string, ttl time.Duration) (string, error) {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return render(otpTemplate, map[string]any{
		"Brand":   brand,
		"Name":    name,
		"Code":    code,
		"Minutes": minutes,
	})
}

// RenderEnquiryAck produces the HTML body acknowledging a new enquiry.
func RenderEnquiryAck(brand, name, service string) (string, error) {
	return render(enquiryAckTemplate, map[string]any{
		"Brand":   brand,
		"Name":    name,
		"Service": service,
	})
}

// RenderSupportAlert produces the HTML body notifying operators of a support query.
func RenderSupportAlert(name, phone, location, issue string) (string, error) {
	return render(supportAlertTemplate, map[string]any{
		"Name":     name,
		"Phone":    phone,
		"Location": location,
		"Issue":    issue,
	})
}

func render(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
