package model

type AccessToken struct {
	ID string `json:"id"`
}

type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
}

type Me struct {
	User
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ShortUser is the owner summary embedded into posts, comments and member lists.
type ShortUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Community struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Owner        ShortUser `json:"owner"`
	MembersCount int64     `json:"members_count"`
	CreatedAt    string    `json:"created_at"`
}

type Post struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	ImageURL     string    `json:"image_url,omitempty"`
	Owner        ShortUser `json:"owner"`
	IsPublic     bool      `json:"is_public"`
	CommunityID  string    `json:"community_id,omitempty"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	IsLiked      bool      `json:"is_liked"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PostID    string    `json:"post_id"`
	Owner     ShortUser `json:"owner"`
	LikeCount int64     `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type Headline struct {
	PostID    string `json:"post_id"`
	Headline  string `json:"headline"`
	LikeCount int64  `json:"like_count"`
}

type Pagination struct {
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}
