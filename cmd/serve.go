package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Shkitskiy94/hw05-final/cache"
	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/mail"
	"github.com/Shkitskiy94/hw05-final/processing"
	"github.com/Shkitskiy94/hw05-final/storage"
	"github.com/Shkitskiy94/hw05-final/web"

	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	if err := openDatabase(); err != nil {
		return err
	}
	if err := storage.Init(); err != nil {
		return err
	}
	if err := processing.Init(); err != nil {
		return err
	}
	if err := cache.Init(); err != nil {
		return err
	}
	mail.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go processing.StartProcessing(ctx)

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	sessionStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.SESSION_MAX_AGE,
		HttpOnly: true,
		Secure:   config.TLS_DOMAINS != "",
	})
	router := web.NewRouter(web.Options{SessionStore: sessionStore})

	var err error
	if config.TLS_DOMAINS != "" {
		log.WithField("domains", config.TLS_DOMAINS).Info("Serving with TLS")
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		log.WithField("address", config.BIND_ADDRESS).Info("Serving")
		err = router.Run(config.BIND_ADDRESS)
	}
	return err
}
