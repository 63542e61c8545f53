package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/luizaranda/go-apiwrapper/pkg/easy"
	"github.com/luizaranda/go-apiwrapper/pkg/log"
	"github.com/luizaranda/go-apiwrapper/pkg/otel"
	"github.com/luizaranda/go-apiwrapper/pkg/telemetry"
	"github.com/luizaranda/go-apiwrapper/pkg/transport"
	"github.com/luizaranda/go-apiwrapper/pkg/transport/httpclient"
)

const (
	_defaultEnvFile = ".env"
	_poolName       = "apiwrap"
)

type requestFlags struct {
	method     string
	data       string
	form       []string
	headers    []string
	user       string
	json       bool
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	var rf requestFlags

	cmd := &cobra.Command{
		Use:   "apiwrap [flags] URL",
		Short: "Perform one HTTP request and print the response",
		Long: `apiwrap performs a single GET, POST, PUT or DELETE request and prints the
response status on stderr and the response body on stdout.

Settings other than the request itself may also be given in a config file
(--config), a .env file or APIWRAP_* environment variables, for example
APIWRAP_TIMEOUT=5s or APIWRAP_OTEL_ENDPOINT=localhost:4317.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], &rf)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&rf.method, "request", "X", "", "request method, POST when a body or form is given and GET otherwise")
	f.StringVarP(&rf.data, "data", "d", "", "request body, @file reads it from file")
	f.StringArrayVarP(&rf.form, "form", "F", nil, "multipart form part, key=value or key=@file")
	f.StringArrayVarP(&rf.headers, "header", "H", nil, `request header, "Key: value"`)
	f.StringVarP(&rf.user, "user", "u", "", "basic auth credentials, user:password")
	f.BoolVar(&rf.json, "json", false, "print status and body as a JSON document")
	f.StringVar(&rf.configFile, "config", "", "config file (yaml, json or toml)")
	f.StringVar(&rf.envFile, "env-file", _defaultEnvFile, "dotenv file loaded before reading the environment")

	f.Duration("timeout", 0, "maximum time the whole transfer may take, 0 for none")
	f.Duration("connect-timeout", 30*time.Second, "maximum time to establish a connection")
	f.String("log-level", "warn", "log level: debug, info, warn or error")
	f.StringP("user-agent", "A", "", "User-Agent header value")
	f.String("target-id", "", "target id tagging metrics of this request")
	f.BoolP("location", "L", false, "follow redirects")
	f.BoolP("insecure", "k", false, "skip TLS certificate verification")
	f.Bool("client-trace", false, "record connection level metrics")
	f.Bool("no-color", false, "disable colored output")
	f.Bool("otel", false, "export traces and metrics over OTLP")
	f.String("otel-endpoint", "", "OTLP collector host:port")
	f.String("datadog-address", "", "statsd agent address")

	return cmd
}

func run(cmd *cobra.Command, rawURL string, rf *requestFlags) error {
	cfg, err := loadConfig(cmd.Flags(), rf.configFile, rf.envFile)
	if err != nil {
		return err
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	atomicLevel := log.NewAtomicLevelAt(lvl)
	logger := log.NewLogger(&atomicLevel,
		log.WithConsoleEncoding(),
		log.WithStacktraceOnError(false),
		log.WithWriter(zapcore.AddSync(cmd.ErrOrStderr())),
	)
	defer func() { _ = logger.Sync() }()

	ctx := log.Context(cmd.Context(), logger)

	if cfg.OTel.Enabled {
		shutdown, err := otel.Start(ctx, otel.Config{
			Endpoint:    cfg.OTel.Endpoint,
			ServiceName: cfg.OTel.ServiceName,
			SampleRatio: cfg.OTel.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("starting opentelemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				log.Warn(ctx, "opentelemetry shutdown failed", log.Err(err))
			}
		}()
	}

	pool := transport.NewPooled(_poolName, transportOptions(cfg)...)
	defer pool.CloseIdleConnections()

	if cfg.Datadog.Address != "" {
		client, err := telemetry.NewClient(telemetry.Config{
			ApplicationName: _poolName,
			DatadogAddress:  cfg.Datadog.Address,
		})
		if err != nil {
			return fmt.Errorf("starting telemetry: %w", err)
		}
		ctx = telemetry.Context(ctx, client)
		defer func() {
			pool.ReportStats(ctx)
			_ = client.Close()
		}()
	}

	h := easy.NewHandle(
		easy.WithRequester(httpclient.New(clientOptions(cfg, pool)...)),
		easy.WithTimeout(cfg.Timeout),
		easy.WithUserAgent(cfg.UserAgent),
	)

	req, err := parseRequest(rawURL, rf)
	if err != nil {
		return err
	}

	res, err := req.do(ctx, h)
	if err != nil {
		return err
	}

	log.Debug(ctx, "response received",
		log.Stringer("status", res.Status),
		log.Int("body_size", len(res.RawData)))

	if rf.json {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return writeText(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
}

func transportOptions(cfg *config) []transport.Option {
	opts := []transport.Option{transport.OptionDialTimeout(cfg.ConnectTimeout)}
	if cfg.Insecure {
		opts = append(opts, transport.OptionInsecureSkipVerify())
	}
	return opts
}

func clientOptions(cfg *config, pool *transport.PooledTransport) []httpclient.Option {
	opts := []httpclient.Option{
		httpclient.WithTransport(pool),
		// The handle timeout bounds the transfer.
		httpclient.DisableTimeout(),
		httpclient.FollowRedirects(cfg.FollowRedirects),
	}

	if cfg.TargetID != "" {
		opts = append(opts, httpclient.WithTargetID(cfg.TargetID))
	}

	if cfg.ClientTrace {
		opts = append(opts, httpclient.WithEnableClientTrace())
	}

	return opts
}
