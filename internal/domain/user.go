package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/internal/model"
	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/authenticator"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Register(context.Context, *model.RegisterUserRequest) (*model.RegisterUserResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetProfile(context.Context, *model.GetUserProfileRequest) (*model.GetUserProfileResponse, error)
	UpdateMyProfile(context.Context, *model.UpdateMyProfileRequest) (*model.UpdateMyProfileResponse, error)
}

type userDomain struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewUserDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *userDomain {
	return &userDomain{userRepo: userRepo, followRepo: followRepo, tokenEngine: tokenEngine}
}

func (d *userDomain) Register(
	ctx context.Context, req *model.RegisterUserRequest,
) (*model.RegisterUserResponse, error) {
	username := normalize(req.Username)
	email := normalize(req.Email)

	if err := checkUsername(username); err != nil {
		return nil, err
	}

	if err := checkEmail(email); err != nil {
		return nil, err
	}

	if _, err := d.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by username: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Email is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:     entity.Base{ID: uuid.NewString()},
		Username: username,
		Email:    email,
		FullName: req.FullName,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Username or email is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	token, err := d.tokenEngine.Generate(user.ID, model.AccessToken{ID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterUserResponse{User: model.ConvertMe(user), AccessToken: token}, nil
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertMe(user)}, nil
}

func (d *userDomain) GetProfile(
	ctx context.Context, req *model.GetUserProfileRequest,
) (*model.GetUserProfileResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid user id")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	isFollowing := false
	if requestUserID := xcontext.RequestUserID(ctx); requestUserID != "" && requestUserID != user.ID {
		_, err := d.followRepo.Get(ctx, requestUserID, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get follow relation: %v", err)
			return nil, errorx.Unknown
		}

		isFollowing = err == nil
	}

	return &model.GetUserProfileResponse{
		User:        model.ConvertUser(user),
		IsFollowing: isFollowing,
	}, nil
}

func (d *userDomain) UpdateMyProfile(
	ctx context.Context, req *model.UpdateMyProfileRequest,
) (*model.UpdateMyProfileResponse, error) {
	if req.FullName == "" && req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	userID := xcontext.RequestUserID(ctx)
	update := &entity.User{FullName: req.FullName}
	if req.Email != "" {
		email := normalize(req.Email)
		if err := checkEmail(email); err != nil {
			return nil, err
		}

		existing, err := d.userRepo.GetByEmail(ctx, email)
		if err == nil && existing.ID != userID {
			return nil, errorx.New(errorx.AlreadyExists, "Email is already taken")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
			return nil, errorx.Unknown
		}

		update.Email = email
	}

	if err := d.userRepo.UpdateByID(ctx, userID, update); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Email is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateMyProfileResponse{User: model.ConvertMe(user)}, nil
}
