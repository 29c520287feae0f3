package notifier

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/BearBump/WriteDesk/internal/broker/messages"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type mailData struct {
	messages.OrderSubmitted
	SiteName     string
	SupportEmail string
	AdminURL     string
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return buf.String(), nil
}

func customerSubject(siteName string, m messages.OrderSubmitted) string {
	return fmt.Sprintf("%s: order %s received", siteName, m.Reference)
}

func adminSubject(m messages.OrderSubmitted) string {
	rush := ""
	if m.IsRushOrder {
		rush = " [RUSH]"
	}
	return fmt.Sprintf("New order %s: $%s, %s, %d pages%s", m.Reference, m.Total, m.ServiceType, m.Pages, rush)
}
