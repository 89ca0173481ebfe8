package mail

import (
	"bytes"
	"html/template"
)

type templateData struct {
	AppName string
	Name    string
	Link    string
}

func render(t *template.Template, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Email Verification</h1>
    <p>Hello {{.Name}},</p>
    <p>Thank you for creating your account! To verify your email address, please click the link below:</p>
    <p><a href="{{.Link}}">Verify Email</a></p>
    <p>Or copy the following link into your browser:</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p>If you did not create this account, you can ignore this email.</p>
    <p style="color: #666; font-size: 12px;">{{.AppName}}</p>
  </div>
</body>
</html>`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Password Reset</h1>
    <p>Hello {{.Name}},</p>
    <p>You have requested a password reset for your account. To reset your password, please click the link below:</p>
    <p><a href="{{.Link}}">Reset Password</a></p>
    <p>Or copy the following link into your browser:</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p><strong>Important:</strong> this link is valid for 1 hour and is one-time use only.</p>
    <p>If you did not make this request, we recommend changing your password immediately.</p>
    <p style="color: #666; font-size: 12px;">{{.AppName}}</p>
  </div>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Welcome!</h1>
    <p>Hello {{.Name}},</p>
    <p>We are thrilled to have you on board! You have successfully verified your email address.</p>
    <p>You now have access to all features. Enjoy!</p>
    <p>Best regards,<br><strong>The {{.AppName}} Team</strong></p>
  </div>
</body>
</html>`))
