package transport

type SignupRequest struct {
	Username  string `json:"username"   validate:"required,max=50"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required,max=25"`
	LastName  string `json:"last_name"  validate:"required,max=25"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EmailListRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,dive,email"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type CreateBookRequest struct {
	Title         string `json:"title"          validate:"required"`
	Author        string `json:"author"         validate:"required"`
	Publisher     string `json:"publisher"      validate:"required"`
	PublishedDate string `json:"published_date" validate:"required,datetime=2006-01-02"`
	PageCount     int    `json:"page_count"     validate:"gte=1"`
	Language      string `json:"language"       validate:"required"`
}

type PatchBookRequest struct {
	Title     *string `json:"title"      validate:"omitempty,min=1"`
	Author    *string `json:"author"     validate:"omitempty,min=1"`
	Publisher *string `json:"publisher"  validate:"omitempty,min=1"`
	PageCount *int    `json:"page_count" validate:"omitempty,gte=1"`
	Language  *string `json:"language"   validate:"omitempty,min=1"`
}

type CreateReviewRequest struct {
	Rating     int    `json:"rating"      validate:"required,min=1,max=5"`
	ReviewText string `json:"review_text" validate:"required"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type AddTagsRequest struct {
	Tags []TagRequest `json:"tags" validate:"required,min=1,dive"`
}
