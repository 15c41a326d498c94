package model

type FollowUserRequest struct {
	UserID string `json:"user_id"`
}

type FollowUserResponse struct{}

func (FollowUserResponse) ResponseMessage() string {
	return "User followed successfully"
}

type UnfollowUserRequest struct {
	UserID string `json:"user_id"`
}

type UnfollowUserResponse struct{}

func (UnfollowUserResponse) ResponseMessage() string {
	return "User unfollowed successfully"
}

type GetFollowersRequest struct {
	UserID string `json:"user_id"`
}

type GetFollowersResponse struct {
	Users []ShortUser `json:"users"`
}

type GetFollowingRequest struct {
	UserID string `json:"user_id"`
}

type GetFollowingResponse struct {
	Users []ShortUser `json:"users"`
}
