package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiftboard/config"
	"shiftboard/internal/admin"
	"shiftboard/internal/api"
	"shiftboard/internal/db"
	"shiftboard/internal/health"
	"shiftboard/internal/identity"
	"shiftboard/internal/logs"
	"shiftboard/internal/middleware"
	"shiftboard/internal/models"
	"shiftboard/internal/profile"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	unsubscribe func()

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Logging */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (optional) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(&models.UserAccount{},
			&models.WorkOrder{},
			&models.Container{}); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	/* 3) Stores, session verifier, resolver */
	st := newStores(a.db)
	verifier := identity.NewTokenVerifier(a.cfg.Auth.SessionSecret, a.cfg.Auth.SessionTTL)
	events := identity.NewEvents()
	cache := profile.NewMemCache(a.cfg.Cache.TTL)

	// a sign-out must drop the cached resolved profile for that session
	a.unsubscribe = events.Subscribe(func(event, sessionKey string) {
		if event == identity.EventSignedOut {
			cache.Delete("profile:" + sessionKey)
		}
	})

	resolver := &profile.Resolver{
		Identity: identity.ContextProvider{},
		Store:    st.profiles,
		Cache:    cache,
	}

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) Health */
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router) // /healthz only
	}

	/* 6) JSON API + dashboard pages */
	h := api.NewHandler(st.orders, st.containers, resolver, events)
	api.RegisterRoutes(a.Router, h, verifier)
	admin.Attach(a.Router, admin.Dependencies{Orders: st.orders, Containers: st.containers})

	/* (optional) log known routes at startup */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Hard timeouts matter in production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	if a.unsubscribe != nil {
		a.unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
