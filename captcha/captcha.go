// Package captcha exposes the anti-captcha client behind the small Solver
// interface scraping clients depend on.
package captcha

import "context"

// Solver turns a FunCaptcha challenge on a page into a token the page accepts.
type Solver interface {
	// Solve returns the solution token for the FunCaptcha widget identified
	// by publicKey on pageURL. It blocks until the token is ready.
	Solve(ctx context.Context, publicKey, pageURL string) (token string, err error)

	// Balance reports the prepaid funds left on the account, in USD.
	Balance(ctx context.Context) (float64, error)
}
