package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialgraph-lab/backend/internal/middleware"
	"github.com/socialgraph-lab/backend/pkg/router"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadStorage()
	s.loadIDNode()
	s.loadTokenEngine()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()
	s.startPrometheus()
	defer s.close()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    cfg.Address(),
		Handler: s.router.Handler(cfg),
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	log.Printf("Starting server on port: %s\n", cfg.Port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("Server stop")

	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	authVerifier := middleware.NewAuthVerifier(s.tokenEngine)

	registerRouter := s.router.Branch()
	registerRouter.After(middleware.HandleSetAccessToken())
	{
		router.POST(registerRouter, "/users/register", s.userDomain.Register)
	}

	// These following APIs need authentication. Routes are matched in registration order, so
	// they are registered before the public ones to let /me win over /{id}.
	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Required())
	{
		// User API
		router.GET(authRouter, "/users/me", s.userDomain.GetMe)
		router.PATCH(authRouter, "/users/me", s.userDomain.UpdateMyProfile)

		// Follow API
		router.POST(authRouter, "/users/{user_id}/follow", s.followDomain.Follow)
		router.DELETE(authRouter, "/users/{user_id}/follow", s.followDomain.Unfollow)

		// Community API
		router.POST(authRouter, "/communities", s.communityDomain.Create)
		router.GET(authRouter, "/communities/me", s.communityDomain.GetMine)
		router.PATCH(authRouter, "/communities/{community_id}", s.communityDomain.Update)
		router.DELETE(authRouter, "/communities/{community_id}", s.communityDomain.Delete)
		router.POST(authRouter, "/communities/{community_id}/join", s.communityDomain.Join)
		router.POST(authRouter, "/communities/{community_id}/leave", s.communityDomain.Leave)
		router.GET(authRouter, "/communities/{community_id}/posts", s.communityDomain.GetPosts)

		// Post API
		router.POST(authRouter, "/posts", s.postDomain.Create)
		router.GET(authRouter, "/posts/me", s.postDomain.GetMyPosts)
		router.PATCH(authRouter, "/posts/{post_id}", s.postDomain.Update)
		router.DELETE(authRouter, "/posts/{post_id}", s.postDomain.Delete)
		router.POST(authRouter, "/posts/{post_id}/publish", s.postDomain.TogglePublish)
		router.POST(authRouter, "/posts/{post_id}/like", s.likeDomain.TogglePostLike)
		router.POST(authRouter, "/posts/{post_id}/comments", s.commentDomain.Create)

		// Comment API
		router.PATCH(authRouter, "/comments/{comment_id}", s.commentDomain.Update)
		router.DELETE(authRouter, "/comments/{comment_id}", s.commentDomain.Delete)
		router.POST(authRouter, "/comments/{comment_id}/like", s.likeDomain.ToggleCommentLike)

		// Feed API
		router.GET(authRouter, "/feed", s.feedDomain.GetFeed)
	}

	// These following APIs identify the user when a token is given, but serve anonymous users
	// too.
	publicRouter := s.router.Branch()
	publicRouter.Before(authVerifier.Optional())
	{
		router.GET(publicRouter, "/healthcheck", s.healthcheck)

		router.GET(publicRouter, "/users/{user_id}", s.userDomain.GetProfile)
		router.GET(publicRouter, "/users/{user_id}/posts", s.postDomain.GetUserPosts)
		router.GET(publicRouter, "/users/{user_id}/followers", s.followDomain.GetFollowers)
		router.GET(publicRouter, "/users/{user_id}/following", s.followDomain.GetFollowing)

		router.GET(publicRouter, "/communities/{community_id}", s.communityDomain.Get)
		router.GET(publicRouter, "/communities/{community_id}/members", s.communityDomain.GetMembers)

		router.GET(publicRouter, "/posts/{post_id}", s.postDomain.Get)
		router.GET(publicRouter, "/posts/{post_id}/comments", s.commentDomain.GetList)

		router.GET(publicRouter, "/explore", s.feedDomain.Explore)
		router.GET(publicRouter, "/trending", s.feedDomain.GetTrending)
	}
}

type healthcheckRequest struct{}

type healthcheckResponse struct {
	Status string `json:"status"`
}

func (s *srv) healthcheck(ctx context.Context, req *healthcheckRequest) (*healthcheckResponse, error) {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ping database: %v", err)
		return nil, err
	}

	return &healthcheckResponse{Status: "ok"}, nil
}
