package model

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type RegisterUserResponse struct {
	User        Me     `json:"user"`
	AccessToken string `json:"access_token"`
}

func (r RegisterUserResponse) AccessTokenInfo() string {
	return r.AccessToken
}

func (RegisterUserResponse) ResponseMessage() string {
	return "User registered successfully"
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User Me `json:"user"`
}

type GetUserProfileRequest struct {
	UserID string `json:"user_id"`
}

type GetUserProfileResponse struct {
	User        User `json:"user"`
	IsFollowing bool `json:"is_following"`
}

// Empty fields are left unchanged.
type UpdateMyProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type UpdateMyProfileResponse struct {
	User Me `json:"user"`
}

func (UpdateMyProfileResponse) ResponseMessage() string {
	return "Profile updated successfully"
}
