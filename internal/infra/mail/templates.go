package mail

import "fmt"

// The transactional mail bodies mirror the product's frontend styling.
// They are deliberately simple inline-styled HTML for broad client support.

func verificationEmailBody(verificationURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 0;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #f5f5f5; padding: 20px; border-radius: 10px;">
      <div style="text-align: center; background-color: #ffffff; padding: 20px; border-radius: 5px;">
        <h1>Verify Your HyperStream Account</h1>
        <p>Thanks for signing up. Click the button below to verify your email address and activate your account.</p>
        <a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #6366f1; color: #ffffff; text-decoration: none; border-radius: 5px;">Verify Email</a>
        <p style="color: #888888; font-size: 12px;">If you did not create a HyperStream account, you can ignore this email.</p>
      </div>
    </div>
  </body>
</html>`, verificationURL)
}

func resetPasswordEmailBody(resetURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 0;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #f5f5f5; padding: 20px; border-radius: 10px;">
      <div style="text-align: center; background-color: #ffffff; padding: 20px; border-radius: 5px;">
        <h1>Reset your HyperStream password</h1>
        <p>We received a request to reset the password for your account. Click the button below to choose a new one.</p>
        <a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #6366f1; color: #ffffff; text-decoration: none; border-radius: 5px;">Reset Password</a>
        <p style="color: #888888; font-size: 12px;">This link expires shortly. If you did not request a reset, you can ignore this email.</p>
      </div>
    </div>
  </body>
</html>`, resetURL)
}
