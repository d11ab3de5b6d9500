package core

import (
	"bytes"
	"fmt"
	"log"
	"net/mail"
	"path/filepath"
	"strings"
	"sync"
	texttmpl "text/template"
)

var (
	templates tmplCache
	tmplInit  sync.Once
)

type (
	tmplCache map[string]*texttmpl.Template // {name: *Template}

	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) getContextData() ContextData {
	return ContextData{
		FrontendBaseURL: Conf.GetString("frontendBaseURL"),
		Data:            m.TemplateData,
	}
}

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	tmplInit.Do(parseTemplates) // only execute once during first request

	tmpl, ok := templates[m.TemplateName]
	if !ok {
		return fmt.Errorf("core.Render: unknown email template %q", m.TemplateName)
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData()); err != nil {
		return err
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }

func parseTemplates() {
	templates = make(tmplCache)

	rp := filepath.Join(Getwd(), "assets", "templates", "email")
	fps, err := filepath.Glob(filepath.Join(rp, "*.txt"))
	if err != nil {
		log.Print(fmt.Errorf("core.parseTemplates: %v", err))
	}

	for _, fp := range fps {
		fname := filepath.Base(fp)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		name := fname[:strings.LastIndex(fname, ".")]
		tmpl, err := texttmpl.ParseFiles(filepath.Join(rp, "_base.txt"), fp)
		if err != nil {
			log.Print(fmt.Errorf("core.parseTemplates: %v", err))
			continue
		}
		if Conf.GetBool("debug") || Conf.GetBool("testMode") {
			tmpl = tmpl.Option("missingkey=error")
		}
		templates[name] = tmpl
	}
}
