package http

import (
	"time"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/domain/profile"
)

type ProjectDTO struct {
	profile.Project
	ImageURL string `json:"image_url,omitempty"`
}

type ProfileDTO struct {
	ID              string               `json:"id"`
	Username        string               `json:"username"`
	DisplayName     string               `json:"display_name"`
	Bio             string               `json:"bio"`
	TemplateID      string               `json:"template_id"`
	ProfileImage    string               `json:"profile_image"`
	ProfileImageURL string               `json:"profile_image_url"`
	BannerImage     string               `json:"banner_image"`
	BannerImageURL  string               `json:"banner_image_url"`
	CVURL           string               `json:"cv_url"`
	Links           []profile.Link       `json:"links"`
	Education       []profile.Education  `json:"education"`
	Experience      []profile.Experience `json:"experience"`
	Skills          []profile.Skill      `json:"skills"`
	Projects        []ProjectDTO         `json:"projects"`
	Contact         profile.ContactInfo  `json:"contact"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ToProfileDTO resolves stored image references to delivery URLs. The
// template id is the effective one, so an unknown stored id reads "classic".
func ToProfileDTO(p *profile.Profile, images service.ImageResolver) ProfileDTO {
	dto := ProfileDTO{
		ID:              p.ID.String(),
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		TemplateID:      p.Template().ID(),
		ProfileImage:    p.ProfileImage,
		ProfileImageURL: images.URL(p.ProfileImage, service.ImageAvatar),
		BannerImage:     p.BannerImage,
		BannerImageURL:  images.URL(p.BannerImage, service.ImageBanner),
		CVURL:           p.CVURL,
		Links:           p.Links,
		Education:       p.Education,
		Experience:      p.Experience,
		Skills:          p.Skills,
		Contact:         p.Contact,
		UpdatedAt:       p.UpdatedAt,
	}
	dto.Projects = make([]ProjectDTO, len(p.Projects))
	for i, proj := range p.Projects {
		dto.Projects[i] = ProjectDTO{Project: proj, ImageURL: images.URL(proj.Image, service.ImageProject)}
	}
	return dto
}

type DashboardDTO struct {
	Profile   ProfileDTO `json:"profile"`
	Created   bool       `json:"created"`
	ViewCount int64      `json:"view_count"`
}

// UpdateSectionRequest carries one wizard section. Only the fields of the
// section named in the path are read.
type UpdateSectionRequest struct {
	DisplayName  string               `json:"display_name"`
	Bio          string               `json:"bio"`
	TemplateID   string               `json:"template_id"`
	ProfileImage string               `json:"profile_image"`
	BannerImage  string               `json:"banner_image"`
	CVURL        string               `json:"cv_url"`
	Links        []profile.Link       `json:"links"`
	Education    []profile.Education  `json:"education"`
	Experience   []profile.Experience `json:"experience"`
	Skills       []profile.Skill      `json:"skills"`
	Projects     []profile.Project    `json:"projects"`
	Contact      profile.ContactInfo  `json:"contact"`
}

func (r *UpdateSectionRequest) ToDomainProfile() *profile.Profile {
	return &profile.Profile{
		DisplayName:  r.DisplayName,
		Bio:          r.Bio,
		TemplateID:   r.TemplateID,
		ProfileImage: r.ProfileImage,
		BannerImage:  r.BannerImage,
		CVURL:        r.CVURL,
		Links:        r.Links,
		Education:    r.Education,
		Experience:   r.Experience,
		Skills:       r.Skills,
		Projects:     r.Projects,
		Contact:      r.Contact,
	}
}

type RenameRequest struct {
	Username string `json:"username" binding:"required"`
}

type UsernameCheckDTO struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type SetLocaleRequest struct {
	Locale string `json:"locale" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SessionDTO struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
