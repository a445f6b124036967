// Command anticaptcha talks to the anti-captcha.com API from the shell.
//
//	anticaptcha balance
//	anticaptcha queue 6
//	anticaptcha image captcha.png
//	anticaptcha result 7654321
//	anticaptcha recaptcha-v3 --url https://example.com --sitekey KEY --score 0.9
//	anticaptcha funcaptcha --url https://example.com --publickey KEY
//
// Results are printed to stdout as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	anticaptcha "github.com/anatolykoptev/go-anticaptcha"
	"github.com/anatolykoptev/go-anticaptcha/metrics"
)

const usage = `usage: anticaptcha <command> [flags] [args]

commands:
  balance                 print the account balance
  queue <id>              print queue statistics
  image <file>            solve an image captcha
  result <taskId>         poll an existing task
  recaptcha-v3            solve a reCAPTCHA v3 (--url --sitekey --score --action)
  funcaptcha              solve a FunCaptcha (--url --publickey)
`

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		slog.Error("anticaptcha: command failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", name)
	}

	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	commonFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != cmd.args {
		return fmt.Errorf("%s takes %d argument(s), got %d", name, cmd.args, fs.NArg())
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg)

	clientCfg := anticaptcha.ClientConfig{
		ClientKey:     cfg.Key,
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		Proxy:         cfg.Proxy,
		LanguagePool:  anticaptcha.LanguagePool(cfg.Language),
		MaxRetries:    &cfg.Retries,
		RetryInterval: cfg.Interval,
		Debug:         cfg.Debug,
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics.New(reg).Attach(&clientCfg)
		stop := serveMetrics(cfg.MetricsAddr, reg)
		defer stop()
	}

	client, err := anticaptcha.NewClient(clientCfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Per-call options carry zero values the client defaults would replace.
	opts := []anticaptcha.Option{
		anticaptcha.WithMaxRetries(cfg.Retries),
		anticaptcha.WithRetryInterval(cfg.Interval),
	}

	out, err := cmd.run(ctx, client, fs, opts)
	if err != nil {
		return err
	}
	return printJSON(out)
}

type command struct {
	args  int
	flags func(*pflag.FlagSet)
	run   func(ctx context.Context, c *anticaptcha.Client, fs *pflag.FlagSet, opts []anticaptcha.Option) (any, error)
}

var commands = map[string]command{
	"balance": {
		run: func(ctx context.Context, c *anticaptcha.Client, _ *pflag.FlagSet, _ []anticaptcha.Option) (any, error) {
			bal, err := c.GetBalance(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]float64{"balance": bal}, nil
		},
	},
	"queue": {
		args: 1,
		run: func(ctx context.Context, c *anticaptcha.Client, fs *pflag.FlagSet, _ []anticaptcha.Option) (any, error) {
			id, err := strconv.Atoi(fs.Arg(0))
			if err != nil {
				return nil, fmt.Errorf("queue id %q: %w", fs.Arg(0), err)
			}
			return c.GetQueueStats(ctx, anticaptcha.QueueID(id))
		},
	},
	"image": {
		args: 1,
		flags: func(fs *pflag.FlagSet) {
			fs.Bool("phrase", false, "answer contains at least two words")
			fs.Bool("case", false, "answer is case sensitive")
			fs.Int("numeric", 0, "0 any, 1 numbers only, 2 letters only")
			fs.Bool("math", false, "answer is the result of a calculation")
			fs.Int("minlength", 0, "minimum answer length")
			fs.Int("maxlength", 0, "maximum answer length")
			fs.String("comment", "", "instructions for the worker")
		},
		run: func(ctx context.Context, c *anticaptcha.Client, fs *pflag.FlagSet, opts []anticaptcha.Option) (any, error) {
			img, err := os.ReadFile(fs.Arg(0))
			if err != nil {
				return nil, err
			}
			task := anticaptcha.NewImageToTextTask(img)
			task.Phrase, _ = fs.GetBool("phrase")
			task.Case, _ = fs.GetBool("case")
			numeric, _ := fs.GetInt("numeric")
			task.Numeric = anticaptcha.NumericRequirement(numeric)
			task.Math, _ = fs.GetBool("math")
			task.MinLength, _ = fs.GetInt("minlength")
			task.MaxLength, _ = fs.GetInt("maxlength")
			task.Comment, _ = fs.GetString("comment")
			return anticaptcha.Solve(ctx, c, task, opts...)
		},
	},
	"result": {
		args: 1,
		run: func(ctx context.Context, c *anticaptcha.Client, fs *pflag.FlagSet, opts []anticaptcha.Option) (any, error) {
			id, err := strconv.Atoi(fs.Arg(0))
			if err != nil {
				return nil, fmt.Errorf("task id %q: %w", fs.Arg(0), err)
			}
			return c.GetTaskResult(ctx, id, opts...)
		},
	},
	"recaptcha-v3": {
		flags: func(fs *pflag.FlagSet) {
			fs.String("url", "", "page URL")
			fs.String("sitekey", "", "reCAPTCHA site key")
			fs.Float64("score", 0.3, "minimum worker score (0.3, 0.5, 0.9)")
			fs.String("action", "", "page action")
		},
		run: func(ctx context.Context, c *anticaptcha.Client, fs *pflag.FlagSet, opts []anticaptcha.Option) (any, error) {
			var task anticaptcha.RecaptchaV3ProxylessTask
			task.WebsiteURL, _ = fs.GetString("url")
			task.WebsiteKey, _ = fs.GetString("sitekey")
			score, _ := fs.GetFloat64("score")
			task.MinScore = anticaptcha.WorkerScore(score)
			task.PageAction, _ = fs.GetString("action")
			return anticaptcha.Solve(ctx, c, task, opts...)
		},
	},
	"funcaptcha": {
		flags: func(fs *pflag.FlagSet) {
			fs.String("url", "", "page URL")
			fs.String("publickey", "", "FunCaptcha public key")
			fs.String("subdomain", "", "custom API JS subdomain")
		},
		run: func(ctx context.Context, c *anticaptcha.Client, fs *pflag.FlagSet, opts []anticaptcha.Option) (any, error) {
			var task anticaptcha.FunCaptchaProxylessTask
			task.WebsiteURL, _ = fs.GetString("url")
			task.WebsitePublicKey, _ = fs.GetString("publickey")
			task.APIJSSubdomain, _ = fs.GetString("subdomain")
			return anticaptcha.Solve(ctx, c, task, opts...)
		},
	},
}

// serveMetrics exposes reg on addr until the returned stop func is called.
func serveMetrics(addr string, reg *prometheus.Registry) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("anticaptcha: serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("anticaptcha: metrics server failed", slog.Any("error", err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
