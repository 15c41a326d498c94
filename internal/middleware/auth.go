package middleware

import (
	"context"
	"strings"

	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/pkg/authenticator"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/router"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

const bearerPrefix = "Bearer "

type AuthVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthVerifier(tokenEngine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine}
}

// Required rejects requests which do not carry a valid access token.
func (a *AuthVerifier) Required() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		ctx, err := a.verify(ctx)
		if err != nil {
			return nil, err
		}

		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

// Optional identifies the user if a token is present, anonymous requests pass through.
func (a *AuthVerifier) Optional() router.MiddlewareFunc {
	return a.verify
}

func (a *AuthVerifier) verify(ctx context.Context) (context.Context, error) {
	token := a.getToken(ctx)
	if token == "" {
		return ctx, nil
	}

	info, err := a.tokenEngine.Verify(token)
	if err != nil || info.ID == "" {
		xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired access token")
	}

	return xcontext.WithRequestUserID(ctx, info.ID), nil
}

func (a *AuthVerifier) getToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if auth := req.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
