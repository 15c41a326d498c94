package model

type GetFeedRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type GetFeedResponse struct {
	Posts []Post `json:"posts"`
}

type ExploreRequest struct {
	Page int `json:"page"`
}

type ExploreResponse struct {
	Posts     []Post     `json:"posts"`
	Headlines []Headline `json:"headlines"`
	Pagination
}

type GetTrendingRequest struct{}

type GetTrendingResponse struct {
	Posts       []Post      `json:"posts"`
	Communities []Community `json:"communities"`
}
