package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/container"
	"erp-import-platform/internal/server"
)

func main() {
	app := fx.New(
		container.Module,
		fx.Invoke(func(
			lc fx.Lifecycle,
			cfg *config.Config,
			srv *server.Server,
		) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.Printf("Starting ERP Import Platform on port %s", cfg.Server.Port)

					// Start server in background
					go func() {
						if err := srv.Start(context.Background()); err != nil {
							log.Printf("Server error: %v", err)
						}
					}()

					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Println("Shutting down ERP Import Platform")
					return srv.Stop()
				},
			})
		}),
	)

	app.Run()
}
