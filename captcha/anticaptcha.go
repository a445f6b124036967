package captcha

import (
	"context"
	"fmt"
	"log/slog"

	anticaptcha "github.com/anatolykoptev/go-anticaptcha"
)

// balanceWarnLevel is the balance in USD below which Solve logs a warning.
const balanceWarnLevel = 5.0

// AntiCaptcha implements Solver with FunCaptcha proxyless tasks.
type AntiCaptcha struct {
	client *anticaptcha.Client
	opts   []anticaptcha.Option
}

var _ Solver = (*AntiCaptcha)(nil)

// NewAntiCaptcha wraps a client. opts apply to every task it creates and polls.
func NewAntiCaptcha(client *anticaptcha.Client, opts ...anticaptcha.Option) *AntiCaptcha {
	return &AntiCaptcha{client: client, opts: opts}
}

// Solve submits a FunCaptcha (Arkose Labs) challenge and polls for the token.
func (a *AntiCaptcha) Solve(ctx context.Context, publicKey, pageURL string) (string, error) {
	// Low funds are only logged; the vendor rejects the task if they run out.
	bal, balErr := a.client.GetBalance(ctx)
	if balErr == nil && bal < balanceWarnLevel {
		slog.Warn("anti-captcha balance low", slog.Float64("balance", bal))
	}

	res, err := anticaptcha.Solve(ctx, a.client, anticaptcha.FunCaptchaProxylessTask{
		WebsiteURL:       pageURL,
		WebsitePublicKey: publicKey,
	}, a.opts...)
	if err != nil {
		return "", fmt.Errorf("anti-captcha funcaptcha: %w", err)
	}
	if res.Solution.Token == "" {
		return "", fmt.Errorf("anti-captcha: task %d ready but empty token", res.TaskID)
	}

	slog.Info("CAPTCHA solved", slog.Int("taskId", res.TaskID), slog.Float64("cost", res.Cost))
	return res.Solution.Token, nil
}

// Balance returns the anti-captcha account balance in USD.
func (a *AntiCaptcha) Balance(ctx context.Context) (float64, error) {
	return a.client.GetBalance(ctx)
}
