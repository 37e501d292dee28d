// Package app wires repositories, infrastructure and services from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	httpapi "pinax-social-backend/internal/api/http"
	"pinax-social-backend/internal/cache"
	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/feeds"
	"pinax-social-backend/internal/jobs"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/mailer"
	"pinax-social-backend/internal/plugins"
	"pinax-social-backend/internal/push"
	"pinax-social-backend/internal/repository/postgres"
	"pinax-social-backend/internal/security"
	"pinax-social-backend/internal/service"
	"pinax-social-backend/internal/storage"
)

const feedFetchTimeout = 20 * time.Second

// App holds the constructed dependency graph
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Store    *postgres.Store
	Tokens   security.TokenManager
	Syncer   *plugins.Syncer
	Services httpapi.Services

	closers []func() error
}

// OpenDB opens and pings the PostgreSQL database
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	logger.Info("Connecting to database", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")
	return db, nil
}

// New builds every service on top of db
func New(ctx context.Context, cfg *config.Config, db *sql.DB) (*App, error) {
	a := &App{Config: cfg, DB: db, Store: postgres.NewStore(db)}
	store := a.Store

	media, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	sender, err := mailer.New(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Email provider selected", "provider", cfg.Email.Provider)

	var pusher push.Sender
	if cfg.Push.Enabled {
		fs, err := push.NewFirebaseSender(ctx, cfg.Push.CredentialsFile)
		if err != nil {
			return nil, err
		}
		pusher = fs
		logger.Info("Push delivery enabled")
	}

	var feedCache cache.Cache = cache.NoopCache{}
	if cfg.Redis.Enabled {
		rc := cache.NewRedisCache(cfg.Redis)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, feed cache disabled", "address", cfg.Redis.Address, "error", err)
			rc.Close()
		} else {
			feedCache = rc
			a.closers = append(a.closers, rc.Close)
			logger.Info("Feed cache enabled", "address", cfg.Redis.Address)
		}
	}

	a.Tokens = security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	a.Syncer = plugins.NewSyncer(store.PluginRepository)

	uploads := service.NewUploadPolicy(cfg.Storage, cfg.MaxUploadBytes())
	emailSvc := service.NewEmailService(sender, cfg.Site)
	noticeSvc := service.NewNotificationService(store.NotificationRepository, store.UserRepository, emailSvc, pusher, cfg.Push.Enabled)

	a.Services = httpapi.Services{
		Auth: service.NewAuthService(
			store.UserRepository,
			store.EmailRepository,
			store.PasswordResetRepository,
			store.JoinInvitationRepository,
			store.FriendRepository,
			noticeSvc,
			emailSvc,
			a.Tokens,
		),
		Users: service.NewUserService(
			store.UserRepository,
			store.EmailRepository,
			store.AvatarRepository,
			media,
			emailSvc,
			uploads,
			cfg.Site.EmailConfirmationDays,
		),
		Friends: service.NewFriendService(
			store.UserRepository,
			store.FriendRepository,
			store.JoinInvitationRepository,
			noticeSvc,
			emailSvc,
			cfg.Site.InvitationExpiryDays,
		),
		Tribes:   service.NewTribeService(store.TribeRepository, store.UserRepository, noticeSvc),
		Topics:   service.NewTopicService(store.TopicRepository, store.TribeRepository, store.ProjectRepository),
		Projects: service.NewProjectService(store.ProjectRepository, store.UserRepository, noticeSvc),
		Tasks:    service.NewTaskService(store.TaskRepository, store.ProjectRepository, store.TagRepository, noticeSvc),
		Messages: service.NewMessageService(store.MessageRepository, store.UserRepository, noticeSvc, cfg.Site.MessagePurgeDays),
		Photos: service.NewPhotoService(
			store.PhotoRepository,
			store.UserRepository,
			store.TagRepository,
			store.TribeRepository,
			store.ProjectRepository,
			media,
			uploads,
		),
		Tags:          service.NewTagService(store.TagRepository),
		Votes:         service.NewVoteService(store.VoteRepository),
		Tweets:        service.NewTweetService(store.TweetRepository, store.UserRepository, noticeSvc),
		Notifications: noticeSvc,
		Feeds: service.NewFeedService(
			store.FeedRepository,
			feeds.NewFetcher(feedFetchTimeout),
			feedCache,
			time.Duration(cfg.Redis.FeedTTLSeconds)*time.Second,
		),
		Plugins: service.NewPluginService(store.PluginRepository, a.Syncer, cfg.Plugins),
		Media:   media,
	}

	if err := noticeSvc.RegisterBuiltinTypes(ctx); err != nil {
		return nil, fmt.Errorf("failed to register notice types: %w", err)
	}
	return a, nil
}

// JobServices returns the subset of services the scheduled jobs need
func (a *App) JobServices() *jobs.Services {
	return &jobs.Services{
		Friends:       a.Services.Friends,
		Messages:      a.Services.Messages,
		Notifications: a.Services.Notifications,
		Feeds:         a.Services.Feeds,
		Plugins:       a.Services.Plugins,
	}
}

// Close releases infrastructure opened by New. The database is owned by the caller.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.Warn("Failed to close resource", "error", err)
		}
	}
}
