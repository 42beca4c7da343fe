// Command coursebuddy-stub serves canned course-backend replies for local
// development of the terminal client.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miosa/coursebuddy/config"
	"github.com/miosa/coursebuddy/logx"
	"github.com/miosa/coursebuddy/stub"
)

func main() {
	envFile := flag.String("env-file", ".env", "Optional dotenv file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := config.LoadStubEnv(*envFile)
	if err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("failed to load configuration")
	}
	logx.Init(logx.Options{
		Environment: logx.Environment(env.Environment),
		Level:       env.LogLevel,
	})

	fx, err := stub.LoadFixtures(env.Fixtures)
	if err != nil {
		logx.Fatal().Err(err).Str("path", env.Fixtures).Msg("failed to load fixtures")
	}

	srv := &http.Server{
		Addr: env.Addr,
		Handler: stub.New(fx, stub.Options{
			Latency:        env.Latency,
			FailEvery:      env.FailEvery,
			AllowedOrigins: env.AllowedOrigins,
		}).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Error().Err(err).Msg("shutdown")
		}
	}()

	logx.Info().
		Str("addr", env.Addr).
		Int("courses", len(fx.Courses)).
		Int("replies", len(fx.Replies)).
		Dur("latency", env.Latency).
		Int("fail_every", env.FailEvery).
		Msg("stub backend listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logx.Fatal().Err(err).Msg("server failed")
	}
}
