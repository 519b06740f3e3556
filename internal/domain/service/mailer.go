package service

import "context"

// MailSender delivers transactional email. Implementations own the transport;
// callers decide whether a failed send is fatal (for this product it never is:
// send failures are logged and swallowed by the triggering use case).
type MailSender interface {
	// SendVerificationEmail delivers the account-verification mail carrying
	// the given link.
	SendVerificationEmail(ctx context.Context, to, verificationURL string) error

	// SendPasswordResetEmail delivers the password-recovery mail carrying
	// the given link.
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
}
