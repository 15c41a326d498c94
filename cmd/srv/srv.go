package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/socialgraph-lab/backend/config"
	"github.com/socialgraph-lab/backend/internal/domain"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/authenticator"
	"github.com/socialgraph-lab/backend/pkg/idutil"
	"github.com/socialgraph-lab/backend/pkg/kafka"
	"github.com/socialgraph-lab/backend/pkg/logger"
	"github.com/socialgraph-lab/backend/pkg/nats"
	"github.com/socialgraph-lab/backend/pkg/prometheus"
	"github.com/socialgraph-lab/backend/pkg/pubsub"
	"github.com/socialgraph-lab/backend/pkg/router"
	"github.com/socialgraph-lab/backend/pkg/storage"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/socialgraph-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo      repository.UserRepository
	followRepo    repository.FollowRepository
	communityRepo repository.CommunityRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	likeRepo      repository.LikeRepository
	counterRepo   repository.CounterRepository

	userDomain       domain.UserDomain
	followDomain     domain.FollowDomain
	communityDomain  domain.CommunityDomain
	postDomain       domain.PostDomain
	commentDomain    domain.CommentDomain
	likeDomain       domain.LikeDomain
	feedDomain       domain.FeedDomain
	engagementDomain domain.EngagementDomain

	router      *router.Router
	server      *http.Server
	storage     storage.Storage
	redisClient xredis.Client
	publisher   pubsub.Publisher
	node        *snowflake.Node
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	// Called in reverse order when the command stops.
	closers []func()
}

func (s *srv) loadConfig(cctx *cli.Context) {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(cctx.Context, cfg)
}

func (s *srv) loadLogger() {
	level, err := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	case "mysql":
		dialector = mysql.Open(cfg.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database driver %s", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

func (s *srv) loadRedisClient() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
	s.closers = append(s.closers, func() { client.Close() })
}

func (s *srv) loadStorage() {
	cfg := xcontext.Configs(s.ctx).Storage
	switch cfg.Driver {
	case "s3":
		s3Storage, err := storage.NewS3Storage(cfg)
		if err != nil {
			panic(err)
		}
		s.storage = s3Storage

	default:
		xcontext.Logger(s.ctx).Warnf("Use in-memory storage, uploaded files are lost on restart")
		s.storage = storage.NewMemoryStorage()
	}
}

func (s *srv) loadIDNode() {
	node, err := idutil.NewNode()
	if err != nil {
		panic(err)
	}

	s.node = node
}

func (s *srv) loadTokenEngine() {
	cfg := xcontext.Configs(s.ctx).Auth
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken.Expiration)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	switch cfg.Events.Broker {
	case "kafka":
		publisher, err := kafka.NewPublisher(cfg.Events.Group, []string{cfg.Kafka.Addr})
		if err != nil {
			panic(err)
		}
		s.publisher = publisher
		s.closers = append(s.closers, func() { publisher.Stop(s.ctx) })

	case "nats":
		client, err := nats.NewClient(s.ctx, cfg.Nats)
		if err != nil {
			panic(err)
		}
		s.publisher = client
		s.closers = append(s.closers, client.Close)

	default:
		s.publisher = pubsub.NopPublisher{}
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.followRepo = repository.NewFollowRepository()
	s.communityRepo = repository.NewCommunityRepository(s.redisClient)
	s.postRepo = repository.NewPostRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.likeRepo = repository.NewLikeRepository()
	s.counterRepo = repository.NewCounterRepository()
}

func (s *srv) loadDomains() {
	eventPublisher := domain.NewEventPublisher(s.publisher, s.node)

	s.userDomain = domain.NewUserDomain(s.userRepo, s.followRepo, s.tokenEngine)
	s.followDomain = domain.NewFollowDomain(s.userRepo, s.followRepo, eventPublisher, s.node)
	s.communityDomain = domain.NewCommunityDomain(s.communityRepo, s.userRepo, s.postRepo,
		s.likeRepo, s.storage, eventPublisher)
	s.postDomain = domain.NewPostDomain(s.postRepo, s.commentRepo, s.likeRepo, s.communityRepo,
		s.userRepo, s.storage)
	s.commentDomain = domain.NewCommentDomain(s.commentRepo, s.postRepo, s.likeRepo, s.userRepo,
		s.communityRepo, eventPublisher)
	s.likeDomain = domain.NewLikeDomain(s.likeRepo, s.postRepo, s.commentRepo, s.communityRepo,
		eventPublisher)
	s.feedDomain = domain.NewFeedDomain(s.postRepo, s.followRepo, s.communityRepo, s.userRepo,
		s.likeRepo, s.redisClient)
	s.engagementDomain = domain.NewEngagementDomain(s.counterRepo)
}

func (s *srv) startPrometheus() {
	addr := xcontext.Configs(s.ctx).PrometheusServer.Address()
	httpSrv := &http.Server{Addr: addr, Handler: prometheus.NewHandler(prometheus.NewRegistry())}

	go func() {
		log.Printf("Starting prometheus on %s\n", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			xcontext.Logger(s.ctx).Errorf("Cannot start prometheus server: %v", err)
		}
	}()

	s.closers = append(s.closers, func() { httpSrv.Close() })
}

func (s *srv) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
