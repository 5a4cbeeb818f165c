// Package site builds the view models behind the public pages and the admin
// dashboard. Everything here is read-only except SubmitContact.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"darew.com/internal/content"
	"darew.com/internal/icons"
)

var (
	// ErrUnknownCategory is returned for a project filter outside the known set.
	ErrUnknownCategory = errors.New("site: unknown project category")
	// ErrMissingField is returned when a required form field is blank.
	ErrMissingField = errors.New("site: required field missing")
	// ErrInvalidEmail is returned when the contact email does not parse.
	ErrInvalidEmail = errors.New("site: invalid email address")
	// ErrControlChar is returned when a field carries a control character
	// other than tab or newline.
	ErrControlChar = errors.New("site: control character in field")
)

// FilterAll selects every project.
const FilterAll = "All"

// Catalog is the read side of the content store.
type Catalog interface {
	Offerings() []content.Offering
	Projects() []content.Project
	Stats() []content.Stat
	Inquiries() []content.Inquiry
	Logs() []content.LogEntry
}

// InquirySink accepts contact form submissions.
type InquirySink interface {
	AddInquiry(ctx context.Context, in content.InquiryInput) content.Inquiry
}

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Nav returns the primary navigation.
func Nav() []NavItem {
	return []NavItem{
		{Label: "Home", Path: "/"},
		{Label: "About Us", Path: "/about"},
		{Label: "Services", Path: "/services"},
		{Label: "Projects", Path: "/projects"},
		{Label: "Contact", Path: "/contact"},
	}
}

// OfferingView is an offering with its icon resolved.
type OfferingView struct {
	content.Offering
	Icon icons.Icon `json:"icon"`
}

type Highlight struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        icons.Icon `json:"icon"`
}

type Hero struct {
	Tagline  string `json:"tagline"`
	Heading  string `json:"heading"`
	Emphasis string `json:"emphasis"`
	Body     string `json:"body"`
}

type HomePage struct {
	Hero       Hero           `json:"hero"`
	Stats      []content.Stat `json:"stats"`
	Offerings  []OfferingView `json:"services"`
	Highlights []Highlight    `json:"whyChooseUs"`
}

const homeOfferings = 3

// Home composes the landing page: headline stats, the first three offerings
// and the reasons to choose the company.
func Home(c Catalog) HomePage {
	offerings := c.Offerings()
	if len(offerings) > homeOfferings {
		offerings = offerings[:homeOfferings]
	}
	return HomePage{
		Hero: Hero{
			Tagline:  "Global Energy Leaders",
			Heading:  "Driving Energy.",
			Emphasis: "Powering Progress.",
			Body:     "Darew Venture Limited delivers world-class expertise in oil & gas exploration, distribution, logistics, and industrial solutions. Fueling the future with precision and integrity.",
		},
		Stats:      c.Stats(),
		Offerings:  withIcons(offerings),
		Highlights: Highlights(),
	}
}

// Highlights returns the "why choose us" blocks.
func Highlights() []Highlight {
	return []Highlight{
		{Title: "24/7 Operations", Description: "Uninterrupted energy production and monitoring systems ensuring constant supply.", Icon: icons.Resolve("Clock")},
		{Title: "Global Partnerships", Description: "Strategic alliances with major NOCs and IOCs across 15 countries.", Icon: icons.Resolve("Globe")},
		{Title: "Safety First", Description: "Industry-leading HSSE standards protecting our people and the environment.", Icon: icons.Resolve("ShieldCheck")},
		{Title: "Innovation", Description: "Investing in digital transformation and renewable integration technologies.", Icon: icons.Resolve("Zap")},
		{Title: "Reliable Delivery", Description: "A proven track record of meeting supply commitments on time, every time.", Icon: icons.Resolve("Users")},
	}
}

// Services lists every offering with its icon.
func Services(c Catalog) []OfferingView {
	return withIcons(c.Offerings())
}

func withIcons(in []content.Offering) []OfferingView {
	out := make([]OfferingView, 0, len(in))
	for _, o := range in {
		out = append(out, OfferingView{Offering: o, Icon: icons.Resolve(o.IconName)})
	}
	return out
}

type ProjectsPage struct {
	Filter   string            `json:"filter"`
	Filters  []string          `json:"filters"`
	Projects []content.Project `json:"projects"`
}

// Filters returns the project filter options in display order.
func Filters() []string {
	out := []string{FilterAll}
	for _, c := range content.Categories() {
		out = append(out, string(c))
	}
	return out
}

// Projects returns the portfolio restricted to filter, keeping store order.
// An empty filter means All.
func Projects(c Catalog, filter string) (ProjectsPage, error) {
	if filter == "" {
		filter = FilterAll
	}
	all := c.Projects()
	page := ProjectsPage{Filter: filter, Filters: Filters(), Projects: all}
	if filter == FilterAll {
		return page, nil
	}
	cat := content.Category(filter)
	if !cat.Valid() {
		return ProjectsPage{}, fmt.Errorf("%w: %q", ErrUnknownCategory, filter)
	}
	matched := make([]content.Project, 0, len(all))
	for _, p := range all {
		if p.Category == cat {
			matched = append(matched, p)
		}
	}
	page.Projects = matched
	return page, nil
}

// ContactForm is the public contact form payload.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SubmitContact validates the form and records it as a new inquiry. Name,
// email and message are required; phone is optional.
func SubmitContact(ctx context.Context, sink InquirySink, form ContactForm) (content.Inquiry, error) {
	in := content.InquiryInput{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Phone:   strings.TrimSpace(form.Phone),
		Message: strings.TrimSpace(form.Message),
	}
	switch {
	case in.Name == "":
		return content.Inquiry{}, fmt.Errorf("%w: name", ErrMissingField)
	case in.Email == "":
		return content.Inquiry{}, fmt.Errorf("%w: email", ErrMissingField)
	case in.Message == "":
		return content.Inquiry{}, fmt.Errorf("%w: message", ErrMissingField)
	}
	if err := CheckText(in.Name, in.Email, in.Phone, in.Message); err != nil {
		return content.Inquiry{}, err
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return content.Inquiry{}, fmt.Errorf("%w: %q", ErrInvalidEmail, in.Email)
	}
	return sink.AddInquiry(ctx, in), nil
}

// CheckText returns ErrControlChar if any field holds a control character
// other than tab, newline or carriage return. Stored JSON must stay loadable
// by every backend, and Postgres jsonb refuses \u0000.
func CheckText(fields ...string) error {
	for _, f := range fields {
		for _, r := range f {
			if r == '\t' || r == '\n' || r == '\r' {
				continue
			}
			if unicode.IsControl(r) {
				return fmt.Errorf("%w: %U", ErrControlChar, r)
			}
		}
	}
	return nil
}
