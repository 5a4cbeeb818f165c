package content

import "time"

// Offering is a service line shown on the public site.
type Offering struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	IconName    string `json:"iconName" yaml:"iconName"`
	Image       string `json:"image" yaml:"image"`
}

// Category groups portfolio projects.
type Category string

const (
	CategoryUpstream       Category = "Upstream"
	CategoryDownstream     Category = "Downstream"
	CategoryInfrastructure Category = "Infrastructure"
)

// Categories lists the project categories in display order.
func Categories() []Category {
	return []Category{CategoryUpstream, CategoryDownstream, CategoryInfrastructure}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryUpstream, CategoryDownstream, CategoryInfrastructure:
		return true
	}
	return false
}

// Project is a portfolio entry.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Location    string   `json:"location" yaml:"location"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
	Image       string   `json:"image" yaml:"image"`
}

// InquiryStatus tracks how far an inbound message has been handled.
type InquiryStatus string

const (
	StatusNew     InquiryStatus = "New"
	StatusRead    InquiryStatus = "Read"
	StatusReplied InquiryStatus = "Replied"
)

// Valid reports whether s is a known status.
func (s InquiryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied:
		return true
	}
	return false
}

// Inquiry is a message submitted through the contact form.
type Inquiry struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Email   string        `json:"email" yaml:"email"`
	Phone   string        `json:"phone" yaml:"phone"`
	Message string        `json:"message" yaml:"message"`
	Status  InquiryStatus `json:"status" yaml:"status"`
	Date    time.Time     `json:"date" yaml:"date"`
}

// InquiryInput carries the caller-supplied fields of a new inquiry.
type InquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// LogEntry records one administrative action. Entries are never modified.
type LogEntry struct {
	ID        string    `json:"id" yaml:"id"`
	AdminID   string    `json:"adminId" yaml:"adminId"`
	AdminName string    `json:"adminName" yaml:"adminName"`
	Action    string    `json:"action" yaml:"action"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Stat is a headline figure shown on the home page.
type Stat struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Offerings []Offering `json:"services" yaml:"services"`
	Projects  []Project  `json:"projects" yaml:"projects"`
	Inquiries []Inquiry  `json:"inquiries" yaml:"inquiries"`
	Stats     []Stat     `json:"stats" yaml:"stats"`
	Logs      []LogEntry `json:"logs" yaml:"logs"`
}

func (o Offering) key() string { return o.ID }
func (p Project) key() string  { return p.ID }
func (i Inquiry) key() string  { return i.ID }
