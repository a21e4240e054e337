package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "careers/internal/adapter/http"
	"careers/internal/config"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the careers site and admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mailer, err := newMailer(ctx, cfg)
			if err != nil {
				return err
			}
			e, err := openEnv(cfg, mailer)
			if err != nil {
				return err
			}
			defer e.close()

			if cfg.Store == config.StoreMemory {
				log.Printf("store: memory (data is lost on restart)")
			}
			log.Printf("mail: %s transport", cfg.MailTransport)

			oidcCfg := adapthttp.OIDCConfig{}
			if cfg.SSOEnabled() {
				oidcCfg, err = adapthttp.NewOIDCConfig(ctx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL, cfg.OIDCAutoProvision)
				if err != nil {
					return err
				}
				log.Printf("sso: enabled for %s", cfg.OIDCIssuer)
			}

			srv := adapthttp.New(adapthttp.Services{
				Auth:          e.auth,
				Jobs:          e.jobs,
				Applications:  e.apps,
				Notifications: e.notify,
				Dashboard:     e.dashboard,
			}, adapthttp.Config{
				WebDir:        cfg.WebDir,
				SessionSecret: cfg.SessionSecret,
				CookieSecure:  cfg.CookieSecure,
				AdminBaseURL:  cfg.AdminBaseURL,
				OIDC:          oidcCfg,
			})

			httpSrv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s", cfg.Addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Printf("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
}
