package types

type RegisterRequest struct {
	TenantName string `json:"tenant_name" validate:"required,max=120"`
	TenantSlug string `json:"tenant_slug" validate:"required,subdomain"`
	OwnerName  string `json:"owner_name" validate:"required,max=120"`
	OwnerEmail string `json:"owner_email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type MemberCreateRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin editor viewer"`
}

// BrandingUpdateRequest is a partial update; bg_color aliases background_color.
type BrandingUpdateRequest struct {
	CompanyName        *string `json:"company_name" validate:"omitempty,max=120"`
	CompanyDescription *string `json:"company_description" validate:"omitempty,max=2000"`
	Logo               *string `json:"logo" validate:"omitempty,url"`
	Favicon            *string `json:"favicon" validate:"omitempty,url"`
	PrimaryColor       *string `json:"primary_color" validate:"omitempty,max=32"`
	SecondaryColor     *string `json:"secondary_color" validate:"omitempty,max=32"`
	AccentColor        *string `json:"accent_color" validate:"omitempty,max=32"`
	BackgroundColor    *string `json:"background_color" validate:"omitempty,max=32"`
	BgColor            *string `json:"bg_color" validate:"omitempty,max=32"`
	TextColor          *string `json:"text_color" validate:"omitempty,max=32"`
	FontHeading        *string `json:"font_heading" validate:"omitempty,max=64"`
	FontBody           *string `json:"font_body" validate:"omitempty,max=64"`
}

type ServiceRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Icon        string  `json:"icon" validate:"max=64"`
}

type ImageRequest struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt" validate:"max=200"`
}

type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type ProjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft published"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type DeploymentCreateRequest struct {
	Subdomain string `json:"subdomain" validate:"required,subdomain"`
}
