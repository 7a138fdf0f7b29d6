package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/folio/internal/domain/template"
)

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
	Category    string `json:"category,omitempty"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	Image        string   `json:"image,omitempty"`
}

type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Profile is a user's public portfolio. UserID and Username are both unique.
type Profile struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	Username     string       `json:"username"`
	DisplayName  string       `json:"display_name"`
	Bio          string       `json:"bio"`
	TemplateID   string       `json:"template_id"`
	ProfileImage string       `json:"profile_image"`
	BannerImage  string       `json:"banner_image"`
	CVURL        string       `json:"cv_url"`
	Links        []Link       `json:"links"`
	Education    []Education  `json:"education"`
	Experience   []Experience `json:"experience"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
	Contact      ContactInfo  `json:"contact"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Section is an independently replaceable part of the edit wizard.
type Section string

const (
	SectionBasic      Section = "basic"
	SectionLinks      Section = "links"
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionProjects   Section = "projects"
	SectionContact    Section = "contact"
)

var Sections = []Section{
	SectionBasic, SectionLinks, SectionEducation, SectionExperience,
	SectionSkills, SectionProjects, SectionContact,
}

func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

const (
	MinProficiency = 1
	MaxProficiency = 5
)

var (
	ErrInvalidUsername    = errors.New("username must be 3-30 characters of lowercase letters, digits, '-' or '_' and start with a letter or digit")
	ErrInvalidProficiency = errors.New("skill proficiency must be between 1 and 5")
	ErrUnknownTemplate    = errors.New("unknown template")
	ErrUnknownSection     = errors.New("unknown profile section")
	usernameRegex         = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,29}$`)
)

// NormalizeUsername is applied to every username before it is stored or
// looked up.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// New creates an empty profile for a user with the default template.
func New(userID uuid.UUID, username string, now time.Time) *Profile {
	return &Profile{
		ID:         uuid.New(),
		UserID:     userID,
		Username:   NormalizeUsername(username),
		TemplateID: template.Classic.ID(),
		Links:      []Link{},
		Education:  []Education{},
		Experience: []Experience{},
		Skills:     []Skill{},
		Projects:   []Project{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Template returns the presentation variant for the profile.
func (p *Profile) Template() template.Variant {
	return template.Dispatch(p.TemplateID)
}

// Replace copies one section from src into p, leaving every other section
// untouched.
func (p *Profile) Replace(section Section, src *Profile) error {
	switch section {
	case SectionBasic:
		p.DisplayName = src.DisplayName
		p.Bio = src.Bio
		p.TemplateID = src.TemplateID
		p.ProfileImage = src.ProfileImage
		p.BannerImage = src.BannerImage
		p.CVURL = src.CVURL
	case SectionLinks:
		p.Links = nonNil(src.Links)
	case SectionEducation:
		p.Education = nonNil(src.Education)
	case SectionExperience:
		p.Experience = nonNil(src.Experience)
	case SectionSkills:
		p.Skills = nonNil(src.Skills)
	case SectionProjects:
		p.Projects = nonNil(src.Projects)
	case SectionContact:
		p.Contact = src.Contact
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return nil
}

// Validate checks the rules the store cannot enforce.
func (p *Profile) Validate() error {
	if err := ValidateUsername(p.Username); err != nil {
		return err
	}
	if p.TemplateID != "" && !template.IsKnown(p.TemplateID) {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, p.TemplateID)
	}
	for _, s := range p.Skills {
		if s.Proficiency < MinProficiency || s.Proficiency > MaxProficiency {
			return fmt.Errorf("%w: %q has %d", ErrInvalidProficiency, s.Name, s.Proficiency)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
	IsUsernameAvailable(ctx context.Context, username string, excludingUserID uuid.UUID) (bool, error)
}
