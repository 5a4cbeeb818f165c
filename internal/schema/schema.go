// Package schema describes the relational shape of the site's data and renders
// it as SQL text for export. The SQL is documentation; nothing executes it.
package schema

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"darew.com/internal/auth"
	"darew.com/internal/content"
)

type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Constraints string `json:"constraints"`
}

type Table struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Columns     []Column `json:"columns"`
}

// Tables returns the conceptual schema in dump order.
func Tables() []Table {
	return []Table{
		{
			Name:        "users",
			Description: "Stores administrator accounts and roles.",
			Columns: []Column{
				{"id", "VARCHAR(36)", "PRIMARY KEY"},
				{"name", "VARCHAR(255)", "NOT NULL"},
				{"email", "VARCHAR(255)", "UNIQUE, NOT NULL"},
				{"role", "ENUM", "('Super Admin', 'Editor', 'Viewer')"},
				{"password_hash", "VARCHAR(255)", "NOT NULL"},
				{"created_at", "TIMESTAMP", "DEFAULT CURRENT_TIMESTAMP"},
			},
		},
		{
			Name:        "services",
			Description: "Corporate services listed on the website.",
			Columns: []Column{
				{"id", "VARCHAR(36)", "PRIMARY KEY"},
				{"title", "VARCHAR(255)", "NOT NULL"},
				{"description", "TEXT", "NOT NULL"},
				{"icon_name", "VARCHAR(50)", "NOT NULL"},
				{"image_url", "VARCHAR(500)", ""},
				{"created_at", "TIMESTAMP", "DEFAULT CURRENT_TIMESTAMP"},
			},
		},
		{
			Name:        "projects",
			Description: "Portfolio of past and ongoing projects.",
			Columns: []Column{
				{"id", "VARCHAR(36)", "PRIMARY KEY"},
				{"title", "VARCHAR(255)", "NOT NULL"},
				{"location", "VARCHAR(255)", "NOT NULL"},
				{"category", "ENUM", "('Upstream', 'Downstream', 'Infrastructure')"},
				{"description", "TEXT", ""},
				{"image_url", "VARCHAR(500)", ""},
			},
		},
		{
			Name:        "inquiries",
			Description: "Contact form submissions from the public site.",
			Columns: []Column{
				{"id", "VARCHAR(36)", "PRIMARY KEY"},
				{"name", "VARCHAR(255)", "NOT NULL"},
				{"email", "VARCHAR(255)", "NOT NULL"},
				{"phone", "VARCHAR(50)", ""},
				{"message", "TEXT", "NOT NULL"},
				{"status", "ENUM", "('New', 'Read', 'Replied') DEFAULT 'New'"},
				{"created_at", "TIMESTAMP", "DEFAULT CURRENT_TIMESTAMP"},
			},
		},
		{
			Name:        "logs",
			Description: "Audit trail for administrative actions.",
			Columns: []Column{
				{"id", "VARCHAR(36)", "PRIMARY KEY"},
				{"admin_id", "VARCHAR(36)", "NOT NULL"},
				{"admin_name", "VARCHAR(255)", ""},
				{"action", "VARCHAR(255)", "NOT NULL"},
				{"timestamp", "TIMESTAMP", "DEFAULT CURRENT_TIMESTAMP"},
			},
		},
	}
}

// Snapshot is the data included in a dump.
type Snapshot struct {
	Users     []auth.Identity
	Offerings []content.Offering
	Projects  []content.Project
}

const isoMillis = "2006-01-02T15:04:05.000Z"

// Dump writes the SQL export: CREATE TABLE statements for every table, then
// INSERT blocks for users, services and projects that have rows. Every string
// literal has its single quotes doubled. Users are dumped with their stored
// password hash.
func Dump(w io.Writer, snap Snapshot, generatedAt time.Time) error {
	var b bytes.Buffer
	b.WriteString("-- Darew Venture Limited Database Dump\n")
	fmt.Fprintf(&b, "-- Generated on %s\n\n", generatedAt.UTC().Format(isoMillis))

	for _, t := range Tables() {
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
		for i, col := range t.Columns {
			line := strings.TrimRight(fmt.Sprintf("  %s %s %s", col.Name, col.Type, col.Constraints), " ")
			b.WriteString(line)
			if i < len(t.Columns)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(");\n\n")
	}

	rows := make([][]string, 0, len(snap.Users))
	for _, u := range snap.Users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), u.PasswordHash})
	}
	writeInserts(&b, "users", "id, name, email, role, password_hash", rows)

	rows = rows[:0]
	for _, o := range snap.Offerings {
		rows = append(rows, []string{o.ID, o.Title, o.Description, o.IconName, o.Image})
	}
	writeInserts(&b, "services", "id, title, description, icon_name, image_url", rows)

	rows = rows[:0]
	for _, p := range snap.Projects {
		rows = append(rows, []string{p.ID, p.Title, p.Location, string(p.Category), p.Description, p.Image})
	}
	writeInserts(&b, "projects", "id, title, location, category, description, image_url", rows)

	_, err := w.Write(b.Bytes())
	return err
}

func writeInserts(b *bytes.Buffer, table, columns string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "-- Dumping data for table '%s'\n", table)
	fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES\n", table, columns)
	for i, row := range rows {
		quoted := make([]string, len(row))
		for j, v := range row {
			quoted[j] = quote(v)
		}
		b.WriteString("(" + strings.Join(quoted, ", ") + ")")
		if i < len(rows)-1 {
			b.WriteString(",\n")
		}
	}
	b.WriteString(";\n\n")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Response    string `json:"response"`
}

// Endpoints returns the illustrative REST contract shown in the admin
// console. The paths are documentation only.
func Endpoints() []Endpoint {
	return []Endpoint{
		{"GET", "/api/services", "Retrieve all services", "Array<Service>"},
		{"POST", "/api/services", "Create a new service (Admin)", "Service"},
		{"GET", "/api/projects", "Retrieve all projects", "Array<Project>"},
		{"POST", "/api/contact", "Submit a new inquiry", "{ success: true, id: string }"},
		{"GET", "/api/admin/stats", "Get dashboard statistics", "StatsObject"},
		{"POST", "/api/auth/login", "Authenticate admin user", "{ token: string, user: User }"},
	}
}
