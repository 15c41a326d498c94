package model

// The image is read from the "image" field of a multipart request.
type CreatePostRequest struct {
	Text        string `json:"text"`
	CommunityID string `json:"community_id"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

func (CreatePostResponse) ResponseMessage() string {
	return "Post created successfully"
}

type GetPostRequest struct {
	PostID string `json:"post_id"`
}

type GetPostResponse struct {
	Post Post `json:"post"`
}

type UpdatePostRequest struct {
	PostID string `json:"post_id"`
	Text   string `json:"text"`
}

type UpdatePostResponse struct {
	Post Post `json:"post"`
}

func (UpdatePostResponse) ResponseMessage() string {
	return "Post updated successfully"
}

type DeletePostRequest struct {
	PostID string `json:"post_id"`
}

type DeletePostResponse struct{}

func (DeletePostResponse) ResponseMessage() string {
	return "Post deleted successfully"
}

type TogglePublishPostRequest struct {
	PostID string `json:"post_id"`
}

type TogglePublishPostResponse struct {
	Post Post `json:"post"`
}

type GetMyPostsRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type GetMyPostsResponse struct {
	Posts []Post `json:"posts"`
	Pagination
}

type GetUserPostsRequest struct {
	UserID   string `json:"user_id"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

type GetUserPostsResponse struct {
	Posts []Post `json:"posts"`
	Pagination
}
