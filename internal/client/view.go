package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-family-tree/models"
	"github.com/charmbracelet/lipgloss"
)

const uiDivider = "──────────────────────────────────────────────────────"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	adminStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cellStyle  = lipgloss.NewStyle().PaddingRight(2)
)

// column widths of the person listing
var columns = []struct {
	title string
	width int
}{
	{"ID", 36},
	{"NAME", 24},
	{"AGE", 4},
	{"ROLE", 6},
	{"USERNAME", 16},
	{"WHATSAPP", 16},
}

func renderPersons(persons []models.PersonView) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Family tree (%d persons)", len(persons))))
	b.WriteString("\n")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.title
	}
	b.WriteString(renderRow(header))

	for _, p := range persons {
		age := "-"
		if p.Age != nil {
			age = strconv.Itoa(*p.Age)
		}
		b.WriteString(renderRow([]string{
			p.ID,
			p.FirstName + " " + p.LastName,
			age,
			renderRole(p.Role),
			valueOrDash(p.Username),
			valueOrDash(p.Whatsapp),
		}))
	}

	if len(persons) == 0 {
		b.WriteString("  -\n")
	}
	return b.String()
}

func renderRow(cells []string) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		w := columns[i].width
		rendered[i] = cellStyle.Width(w + 2).Render(fitText(cell, w))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func renderRole(role models.Role) string {
	if role == models.RoleAdmin {
		return adminStyle.Render(string(role))
	}
	return string(role)
}

func renderIdentity(id models.Identity) string {
	return fmt.Sprintf("logged in as %s (%s, id %s)", titleStyle.Render(id.Username), id.Role, id.ID)
}

func renderBuildInfo(info models.AppBuildInfo) string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		orNA(info.BuildVersion()), orNA(info.BuildDate()), orNA(info.BuildCommit()))
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func valueOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

// fitText truncates v to max runes, marking the cut with "...".
func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
