// Command voicebill is the main entry point for the VoiceBill server: it
// wires the lexicon, recognizer, bill ledger, dispatcher, and HTTP API
// together and serves until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rampradops28/final-app/internal/bill"
	"github.com/rampradops28/final-app/internal/config"
	"github.com/rampradops28/final-app/internal/dispatch"
	"github.com/rampradops28/final-app/internal/health"
	"github.com/rampradops28/final-app/internal/invoice"
	"github.com/rampradops28/final-app/internal/lexicon"
	"github.com/rampradops28/final-app/internal/observe"
	"github.com/rampradops28/final-app/internal/recognizer"
	"github.com/rampradops28/final-app/internal/server"
	"github.com/rampradops28/final-app/internal/session"
	"github.com/rampradops28/final-app/internal/sms"
	"github.com/rampradops28/final-app/pkg/speech"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voicebill: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voicebill: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logLevel := new(slog.LevelVar)
	logLevel.Set(slogLevel(cfg.Server.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("voicebill starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "voicebill",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	metrics := observe.DefaultMetrics()

	// ── Recognition pipeline ──────────────────────────────────────────────────
	lex := lexicon.New(
		lexicon.WithProducts(cfg.Lexicon.Products...),
		lexicon.WithCorrections(cfg.Lexicon.Corrections),
		lexicon.WithTransliterations(cfg.Lexicon.Transliterations),
	)
	rec := recognizer.New(lex,
		recognizer.WithLanguage(cfg.Voice.LanguageMode()),
	)
	ledger := bill.NewLedger()

	// ── SMS (optional) ────────────────────────────────────────────────────────
	var invoiceOpts []invoice.Option
	invoiceOpts = append(invoiceOpts,
		invoice.WithMetrics(metrics),
	)
	if cfg.Invoice.BusinessName != "" {
		invoiceOpts = append(invoiceOpts, invoice.WithBusinessName(cfg.Invoice.BusinessName))
	}
	smsConfigured := sms.Configured(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From, cfg.SMS.To)
	if smsConfigured {
		var smsOpts []sms.Option
		if cfg.SMS.BaseURL != "" {
			smsOpts = append(smsOpts, sms.WithBaseURL(cfg.SMS.BaseURL))
		}
		smsClient, err := sms.New(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From, cfg.SMS.To, smsOpts...)
		if err != nil {
			slog.Error("failed to create SMS client", "err", err)
			return 1
		}
		invoiceOpts = append(invoiceOpts, invoice.WithSender(smsClient))
		slog.Info("sms delivery enabled", "from", cfg.SMS.From)
	}

	// ── Invoice generation ────────────────────────────────────────────────────
	invoices := invoice.New(ledger, cfg.Invoice.OutputDir, invoiceOpts...)

	// ── Dispatch + session ────────────────────────────────────────────────────
	var driver *session.Driver
	disp := dispatch.New(ledger,
		dispatch.WithSpeaker(speech.Log{}),
		dispatch.WithInvoiceGenerator(invoices),
		dispatch.WithListener(listenerFunc(func() { driver.Stop() })),
		dispatch.WithFeedback(cfg.Voice.FeedbackEnabled()),
		dispatch.WithMetrics(metrics),
	)
	driver = session.New(rec, disp,
		session.WithDuplicateWindow(cfg.Voice.DuplicateWindow(session.DefaultDuplicateWindow)),
		session.WithMetrics(metrics),
	)

	// ── Config hot reload ─────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(next *config.Config, diff config.ConfigDiff) {
		if diff.LogLevelChanged {
			logLevel.Set(slogLevel(diff.NewLogLevel))
		}
		if diff.LexiconChanged || diff.VoiceChanged {
			driver.SetRecognizer(recognizer.New(
				lexicon.New(
					lexicon.WithProducts(next.Lexicon.Products...),
					lexicon.WithCorrections(next.Lexicon.Corrections),
					lexicon.WithTransliterations(next.Lexicon.Transliterations),
				),
				recognizer.WithLanguage(next.Voice.LanguageMode()),
			))
		}
		if diff.VoiceChanged {
			driver.SetDuplicateWindow(next.Voice.DuplicateWindow(session.DefaultDuplicateWindow))
			disp.SetFeedback(next.Voice.FeedbackEnabled())
		}
	})
	if err != nil {
		slog.Error("failed to start config watcher", "err", err)
		return 1
	}
	defer watcher.Stop()

	// ── HTTP server ───────────────────────────────────────────────────────────
	checks := health.New(health.InvoiceDir(cfg.Invoice.OutputDir))
	serverOpts := []server.Option{
		server.WithInvoicer(invoices),
		server.WithHealth(checks),
		server.WithMetrics(metrics),
	}
	if cfg.Server.TLS != nil {
		serverOpts = append(serverOpts, server.WithTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile))
	}
	srv := server.New(cfg.Server.ListenAddr, driver, ledger, serverOpts...)

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, smsConfigured)

	slog.Info("server ready — press Ctrl+C to shut down")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// listenerFunc adapts a func to dispatch.Listener.
type listenerFunc func()

func (f listenerFunc) Stop() { f() }

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, smsEnabled bool) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        VoiceBill — startup summary    ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Language", string(cfg.Voice.LanguageMode()))
	printRow("Feedback", onOff(cfg.Voice.FeedbackEnabled()))
	printRow("Extra products", fmt.Sprintf("%d", len(cfg.Lexicon.Products)))
	printRow("Invoice dir", cfg.Invoice.OutputDir)
	printRow("SMS", onOff(smsEnabled))
	if cfg.Server.ListenAddr != "" {
		printRow("Listen addr", cfg.Server.ListenAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printRow(key, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-14s  : %-19s ║\n", key, value)
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "(disabled)"
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
