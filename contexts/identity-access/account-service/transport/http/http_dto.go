package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type ProfileDTO struct {
	Avatar   string `json:"avatar"`
	Telegram string `json:"telegram"`
	IsUstaz  bool   `json:"is_ustaz"`
}

type UserDTO struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	DateJoined string     `json:"date_joined"`
	Profile    ProfileDTO `json:"profile"`
}

type PublicUserDTO struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	DateJoined string  `json:"date_joined"`
	Avatar     *string `json:"avatar"`
	Telegram   *string `json:"telegram"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Profile   struct {
		Telegram string `json:"telegram"`
	} `json:"profile"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    UserDTO `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type UpdateProfileRequest struct {
	Avatar   *string `json:"avatar"`
	Telegram *string `json:"telegram"`
}

type UpdateMeRequest struct {
	Email     *string               `json:"email"`
	FirstName *string               `json:"first_name"`
	LastName  *string               `json:"last_name"`
	Profile   *UpdateProfileRequest `json:"profile"`
}
