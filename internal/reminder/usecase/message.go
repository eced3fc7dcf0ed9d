package usecase

import (
	"fmt"
	"html"
	"strings"

	authdomain "bookmark-backend/internal/auth/domain"
	"bookmark-backend/internal/reminder/domain"
	sitedomain "bookmark-backend/internal/site/domain"
)

const dueLayout = "02 Jan 2006 15:04 MST"

type emailMessage struct {
	subject  string
	textBody string
	htmlBody string
}

func composeEmail(r *domain.Reminder, owner *authdomain.User, site *sitedomain.Site) emailMessage {
	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", owner.DisplayName())
	fmt.Fprintf(&text, "This is your reminder: %s\n", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&text, "\n%s\n", r.Description)
	}
	if site != nil {
		fmt.Fprintf(&text, "\nSite: %s\n%s\n", site.Name, site.URL)
	}
	fmt.Fprintf(&text, "\nDue: %s\n", r.DueAt.Format(dueLayout))

	var body strings.Builder
	fmt.Fprintf(&body, "<p>Hi %s,</p>", html.EscapeString(owner.DisplayName()))
	fmt.Fprintf(&body, "<p>This is your reminder: <strong>%s</strong></p>", html.EscapeString(r.Title))
	if r.Description != "" {
		fmt.Fprintf(&body, "<p>%s</p>", html.EscapeString(r.Description))
	}
	if site != nil {
		fmt.Fprintf(&body, `<p><a href="%s">%s</a></p>`, html.EscapeString(site.URL), html.EscapeString(site.Name))
	}
	fmt.Fprintf(&body, "<p>Due: %s</p>", html.EscapeString(r.DueAt.Format(dueLayout)))

	return emailMessage{
		subject:  "Reminder: " + r.Title,
		textBody: text.String(),
		htmlBody: body.String(),
	}
}

func pushBody(r *domain.Reminder, site *sitedomain.Site) string {
	if site != nil && site.Name != "" {
		return fmt.Sprintf("Time to revisit %s", site.Name)
	}
	if r.Description != "" {
		return r.Description
	}
	return "You have a reminder due"
}
