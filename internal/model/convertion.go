package model

import (
	"time"

	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/pagination"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:             user.ID,
		Username:       user.Username,
		FullName:       user.FullName,
		AvatarURL:      user.AvatarURL,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
	}
}

func ConvertMe(user *entity.User) Me {
	return Me{
		User:      ConvertUser(user),
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(DefaultTimeLayout),
	}
}

// ConvertShortUser keeps the id even if the user record is missing.
func ConvertShortUser(user *entity.User, id string) ShortUser {
	if user == nil {
		return ShortUser{ID: id}
	}

	return ShortUser{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
}

func ConvertCommunity(community *entity.Community, owner *entity.User) Community {
	return Community{
		ID:           community.ID,
		Name:         community.Name,
		AvatarURL:    community.AvatarURL,
		Owner:        ConvertShortUser(owner, community.OwnerID),
		MembersCount: community.MembersCount,
		CreatedAt:    community.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPost(post *entity.Post, owner *entity.User, isLiked bool) Post {
	return Post{
		ID:           post.ID,
		Text:         post.Text,
		ImageURL:     post.ImageURL,
		Owner:        ConvertShortUser(owner, post.OwnerID),
		IsPublic:     post.IsPublic,
		CommunityID:  post.CommunityID.String,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		IsLiked:      isLiked,
		CreatedAt:    post.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:    post.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertComment(comment *entity.Comment, owner *entity.User, isLiked bool) Comment {
	return Comment{
		ID:        comment.ID,
		Content:   comment.Content,
		PostID:    comment.PostID,
		Owner:     ConvertShortUser(owner, comment.OwnerID),
		LikeCount: comment.LikeCount,
		IsLiked:   isLiked,
		CreatedAt: comment.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt: comment.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPagination(totalCount int64, page, pageSize int) Pagination {
	totalPages := pagination.TotalPages(totalCount, pageSize)
	return Pagination{
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
