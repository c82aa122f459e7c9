package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/domain/session"
	"github.com/yanqian/moonwatch/internal/infra/assets"
	"github.com/yanqian/moonwatch/internal/infra/astronomy/ipgeolocation"
	"github.com/yanqian/moonwatch/internal/infra/config"
	"github.com/yanqian/moonwatch/internal/infra/sessionstore"
	httpiface "github.com/yanqian/moonwatch/internal/interface/http"
	"github.com/yanqian/moonwatch/pkg/logger"
)

// provideLogger writes to stdout for the server.
func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
}

// cliLogger keeps stdout free for command output.
type cliLogger struct{ *slog.Logger }

func provideCLILogger(cfg *config.Config) cliLogger {
	return cliLogger{logger.New(os.Stderr, cfg.Log.Level, "text")}
}

func provideAstronomyClient(cfg *config.Config, log *slog.Logger) *ipgeolocation.Client {
	if strings.TrimSpace(cfg.Astronomy.APIKey) == "" {
		log.Warn("astronomy api key not set, provider requests will be rejected")
	}
	return ipgeolocation.NewClient(cfg.Astronomy.APIBaseURL, cfg.Astronomy.APIKey, cfg.Astronomy.Timeout)
}

func provideLookupController(cfg *config.Config, log cliLogger) *moonview.Controller {
	client := provideAstronomyClient(cfg, log.Logger)
	return moonview.NewController(client, log.Logger)
}

func provideSessionConfig(cfg *config.Config, log *slog.Logger) (session.Config, error) {
	secret := strings.TrimSpace(cfg.Session.Secret)
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return session.Config{}, err
		}
		secret = hex.EncodeToString(buf)
		log.Warn("session secret not set, using an ephemeral one; sessions end on restart")
	}
	return session.Config{
		Secret:      secret,
		TTL:         cfg.Session.TTL,
		IdleTimeout: cfg.Session.IdleTimeout,
	}, nil
}

func provideSessionStore(cfg *config.Config, log *slog.Logger) (session.Store, func()) {
	noop := func() {}
	if cfg.Session.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			log.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore(), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			log.Error("failed to create valkey client, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore(), noop
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			log.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			log.Info("session valkey store enabled", "addr", cfg.Session.Valkey.Addr)
			return sessionstore.NewValkeyStore(client, cfg.Session.Valkey.Prefix), client.Close
		}
	}
	return sessionstore.NewMemoryStore(), noop
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideAssetResolver(cfg *config.Config, log *slog.Logger) (httpiface.AssetResolver, error) {
	r2 := cfg.Assets.R2
	if !r2.Enabled {
		return assets.NewLocalResolver(cfg.Assets.Dir, httpiface.StaticPrefix), nil
	}
	resolver, err := assets.NewR2Resolver(r2.Endpoint, r2.AccessKey, r2.SecretKey, r2.Bucket, r2.Region, r2.PresignTTL, log)
	if err != nil {
		return nil, err
	}
	log.Info("serving assets from r2", "bucket", r2.Bucket)
	return resolver, nil
}
