package model

type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type CreateCommentResponse struct {
	Comment Comment `json:"comment"`
}

func (CreateCommentResponse) ResponseMessage() string {
	return "Comment created successfully"
}

type UpdateCommentRequest struct {
	CommentID string `json:"comment_id"`
	Content   string `json:"content"`
}

type UpdateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type DeleteCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type DeleteCommentResponse struct{}

func (DeleteCommentResponse) ResponseMessage() string {
	return "Comment deleted successfully"
}

type GetCommentsRequest struct {
	PostID   string `json:"post_id"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
	Pagination
}
