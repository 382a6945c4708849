package dto

type CreateRoleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateUserRequest struct {
	UserName string  `json:"userName"`
	Email    *string `json:"email"`
	Password string  `json:"password,omitempty"`
	IsAdmin  bool    `json:"isAdmin"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"fullName"`
	AvatarUrl *string `json:"avatarUrl"`
	Locale    *string `json:"locale"`
	Phone     *string `json:"phone"`
}
