package model

// The avatar is read from the "avatar" field of a multipart request.
type CreateCommunityRequest struct {
	Name string `json:"name"`
}

type CreateCommunityResponse struct {
	Community Community `json:"community"`
}

func (CreateCommunityResponse) ResponseMessage() string {
	return "Community created successfully"
}

type GetCommunityRequest struct {
	CommunityID string `json:"community_id"`
}

type GetCommunityResponse struct {
	Community Community `json:"community"`
	IsMember  bool      `json:"is_member"`
}

type GetMyCommunitiesRequest struct{}

type GetMyCommunitiesResponse struct {
	Communities []Community `json:"communities"`
}

func (resp GetMyCommunitiesResponse) ResponseMessage() string {
	if len(resp.Communities) == 0 {
		return "You are not a member of any community"
	}

	return "Success"
}

type UpdateCommunityRequest struct {
	CommunityID string `json:"community_id"`
	Name        string `json:"name"`
}

type UpdateCommunityResponse struct {
	Community Community `json:"community"`
}

type DeleteCommunityRequest struct {
	CommunityID string `json:"community_id"`
}

type DeleteCommunityResponse struct{}

func (DeleteCommunityResponse) ResponseMessage() string {
	return "Community deleted successfully"
}

type JoinCommunityRequest struct {
	CommunityID string `json:"community_id"`
}

type JoinCommunityResponse struct{}

func (JoinCommunityResponse) ResponseMessage() string {
	return "Joined community successfully"
}

type LeaveCommunityRequest struct {
	CommunityID string `json:"community_id"`
}

type LeaveCommunityResponse struct{}

func (LeaveCommunityResponse) ResponseMessage() string {
	return "Left community successfully"
}

type GetCommunityMembersRequest struct {
	CommunityID string `json:"community_id"`
}

type GetCommunityMembersResponse struct {
	Members []ShortUser `json:"members"`
}

type GetCommunityPostsRequest struct {
	CommunityID string `json:"community_id"`
	Page        int    `json:"page"`
}

type GetCommunityPostsResponse struct {
	Posts []Post `json:"posts"`
	Pagination
}
