package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/socialgraph-lab/backend/pkg/router"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

type AccessTokenResponse interface {
	AccessTokenInfo() string
}

// HandleSetAccessToken stores the access token of a successful response into a cookie.
func HandleSetAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.Response(ctx).(AccessTokenResponse)
		if !ok || tokenResp.AccessTokenInfo() == "" {
			return ctx, nil
		}

		w := xcontext.HTTPWriter(ctx)
		if w == nil {
			return ctx, nil
		}

		cfg := xcontext.Configs(ctx).Auth.AccessToken
		http.SetCookie(w, &http.Cookie{
			Name:     cfg.Name,
			Value:    tokenResp.AccessTokenInfo(),
			Path:     "/",
			Expires:  time.Now().Add(cfg.Expiration),
			Secure:   true,
			HttpOnly: true,
		})

		return ctx, nil
	}
}
