package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LukaGiorgadze/gonull"
	"github.com/edup2p/mwa/types/assoc"
	"github.com/edup2p/mwa/types/dial"
	"github.com/edup2p/mwa/types/key"
	"github.com/edup2p/mwa/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Flags
var (
	configFile  string
	logLevel    string
	suiteName   string
	host        string
	port        int
	baseURL     string
	metricsAddr string
	message     string
)

func init() {
	flag.StringVar(&configFile, "config", "./mwa.toml", "path to config file")
	flag.StringVar(&logLevel, "log-level", "", "log level")
	flag.StringVar(&suiteName, "suite", "", "key suite to use (p256, curve25519)")
	flag.StringVar(&host, "host", "", "wallet host, must be a loopback host")
	flag.IntVar(&port, "port", 0, "port of an already listening wallet, skips launching one")
	flag.StringVar(&baseURL, "base-url", "", "https base url of the wallet's association endpoint")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "address to serve prometheus metrics on")
	flag.StringVar(&message, "sign", "", "message to have signed by the first authorized account")
}

var programLevel = new(slog.LevelVar) // Info by default

type output struct {
	AuthToken string           `json:"auth_token"`
	Accounts  []wallet.Account `json:"accounts"`
	Signed    [][]byte         `json:"signed,omitempty"`
}

func main() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel, AddSource: true})
	slog.SetDefault(slog.New(h))

	flag.Parse()

	switch logLevel {
	case "trace":
		programLevel.Set(-8)
	case "debug":
		programLevel.Set(slog.LevelDebug)
	case "info", "":
		programLevel.Set(slog.LevelInfo)
	case "warn":
		programLevel.Set(slog.LevelWarn)
	case "error":
		programLevel.Set(slog.LevelError)
	default:
		slog.Warn("could not recognise flag --log-level, will use log level info", "unrecognised-argument", logLevel)
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		slog.Error("could not load config", "err", err)
		os.Exit(1)
	}

	if err := applyFlags(&cfg); err != nil {
		slog.Error("invalid flags", "err", err)
		os.Exit(1)
	}

	var metrics *wallet.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = wallet.NewMetrics(reg)
		go serveMetrics(cfg.MetricsAddr, reg)
	}

	wcfg, err := walletConfig(cfg, metrics)
	if err != nil {
		slog.Error("could not build session config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	out, err := wallet.Transact(ctx, func(ctx context.Context, w *wallet.Wallet) (*output, error) {
		return run(ctx, w, cfg)
	}, wcfg)
	if err != nil {
		var we *wallet.Error
		if errors.As(err, &we) {
			slog.Error("session failed", "code", we.Code, "err", err)
		} else {
			slog.Error("session failed", "err", err)
		}
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("could not write result", "err", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *Config) error {
	if suiteName != "" {
		cfg.Suite = suiteName
	}
	if host != "" {
		cfg.Host = host
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("port out of range 0-65535: %d", port)
	} else if port != 0 {
		cfg.Port = uint16(port)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	return nil
}

func walletConfig(cfg Config, metrics *wallet.Metrics) (*wallet.Config, error) {
	suite, err := key.SuiteByName(cfg.Suite)
	if err != nil {
		return nil, err
	}

	var boot assoc.Bootstrapper
	if cfg.Port != 0 {
		boot = assoc.Static{Port: cfg.Port}
	} else {
		boot = &assoc.LocalBootstrap{Launcher: assoc.ExecLauncher{Command: cfg.Launcher}}
	}

	return &wallet.Config{
		Suite:     suite,
		Bootstrap: boot,
		BaseURL:   cfg.BaseURL,
		Dial: dial.Opts{
			Host:        cfg.Host,
			MaxAttempts: cfg.MaxAttempts,
			RetryDelay:  cfg.RetryDelay,
		},
		Metrics: metrics,
	}, nil
}

func identity(cfg Config) wallet.AppIdentity {
	var id wallet.AppIdentity

	if cfg.AppName != "" {
		id.Name = gonull.NewNullable(cfg.AppName)
	}
	if cfg.AppURI != "" {
		id.URI = gonull.NewNullable(cfg.AppURI)
	}
	if cfg.AppIcon != "" {
		id.Icon = gonull.NewNullable(cfg.AppIcon)
	}

	return id
}

func run(ctx context.Context, w *wallet.Wallet, cfg Config) (*output, error) {
	p := wallet.AuthorizeParams{Identity: identity(cfg)}
	if cfg.Chain != "" {
		p.Chain = gonull.NewNullable(cfg.Chain)
	}

	auth, err := w.Authorize(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}

	slog.Info("authorized", "accounts", len(auth.Accounts))

	out := &output{AuthToken: auth.AuthToken, Accounts: auth.Accounts}

	if message == "" {
		return out, nil
	}

	if len(auth.Accounts) == 0 {
		return nil, errors.New("wallet authorized no accounts to sign with")
	}

	signed, err := w.SignMessages(ctx, [][]byte{auth.Accounts[0].Address}, [][]byte{[]byte(message)})
	if err != nil {
		return nil, fmt.Errorf("sign messages: %w", err)
	}
	out.Signed = signed

	return out, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	slog.Info("serving metrics", "addr", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server exited", "err", err)
	}
}
