package main

import (
	"context"
	"log/slog"
	"os"

	"hyperstream/config"
	"hyperstream/internal/delivery"
	"hyperstream/internal/delivery/http"
	"hyperstream/internal/delivery/http/middleware"
	"hyperstream/internal/delivery/http/router/handler"
	"hyperstream/internal/infra/auth"
	"hyperstream/internal/infra/auth/oauth"
	logs "hyperstream/internal/infra/log"
	"hyperstream/internal/infra/mail"
	"hyperstream/internal/infra/persistence/postgres"
	"hyperstream/internal/infra/storage"
	"hyperstream/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		storage.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewStreamRepository,
			postgres.NewFollowRepository,
			postgres.NewBlockRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			mail.NewSMTPSender,
			fx.Annotate(
				oauth.NewGoogleProvider,
				fx.ResultTags(`name:"google"`),
			),
			fx.Annotate(
				oauth.NewFacebookProvider,
				fx.ResultTags(`name:"facebook"`),
			),
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewUserService,
			impl.NewStreamService,
			impl.NewFollowService,
			impl.NewBlockService,
			impl.NewUploadService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewLocalJWTStrategy,
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewOAuthHandler,
			handler.NewStreamHandler,
			handler.NewFollowHandler,
			handler.NewBlockHandler,
			handler.NewUploadHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
