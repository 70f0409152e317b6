package mailer

import (
	"fmt"
	"html"
	"time"
)

const (
	OTPSubject     = "Email Verification - OTP Code"
	WelcomeSubject = "Welcome to DCMS!"
)

// OTPBody renders the verification email carrying the one-time code.
func OTPBody(code string, validFor time.Duration) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 16px; padding: 40px 30px; text-align: center;">
    <h1>Email Verification</h1>
    <p>Thank you for registering with <strong>DCMS</strong>!</p>
    <p>Please use the following OTP code to verify your email address:</p>
    <div style="font-size: 36px; font-weight: bold; letter-spacing: 8px; margin: 20px 0;">%s</div>
    <p><strong>Important:</strong> this code will expire in <strong>%d minutes</strong>.
       Do not share it with anyone. If you didn't request this code, please ignore this email.</p>
    <p style="color: #6b7280; font-size: 14px;">This is an automated email, please do not reply.</p>
  </div>
</body>
</html>`, html.EscapeString(code), int(validFor.Minutes()))
}

// WelcomeBody renders the email sent once registration is complete.
func WelcomeBody() string {
	return `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 16px; padding: 40px 30px;">
    <h1>Welcome to DCMS!</h1>
    <p><strong>Congratulations!</strong> Your email has been verified successfully.</p>
    <p>Your account is now active and you can start using all the features of our Dynamic Content Management System.</p>
    <p>Thank you for joining us!</p>
  </div>
</body>
</html>`
}
