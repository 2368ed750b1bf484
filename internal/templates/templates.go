package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"regexp"
	"sort"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed mail
var mailFS embed.FS

// Catalogue names used outside the HTTP routes.
const (
	PasswordReset        = "password-reset"
	PasswordResetSuccess = "password-reset-success"
	HelpRequestAdmin     = "help-request-admin"
)

var ErrUnknownTemplate = errors.New("unknown email template")

var blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

// Definition describes one email kind.
type Definition struct {
	Name string
	// RecipientKeys are the request fields checked, in order, for the recipient.
	RecipientKeys []string
	// StrictRecipient rejects malformed and placeholder addresses.
	StrictRecipient bool
	// AdminTemplate is sent to the adminEmail field alongside the main message.
	AdminTemplate string
	// Internal templates are not exposed as /send-<name>-email routes.
	Internal bool

	derive func(data map[string]string, now time.Time)
}

// Recipient returns the first non-empty recipient field.
func (d Definition) Recipient(fields map[string]string) string {
	keys := d.RecipientKeys
	if len(keys) == 0 {
		keys = []string{"to"}
	}
	for _, key := range keys {
		if v := strings.TrimSpace(fields[key]); v != "" {
			return v
		}
	}
	return ""
}

var definitions = []Definition{
	{Name: "welcome"},
	{Name: "listing-live"},
	{Name: "price-suggestions", derive: derivePropertyCategory},
	{Name: "loan-enquiry", RecipientKeys: []string{"to", "email", "userEmail"}, StrictRecipient: true, derive: deriveLoanType},
	{Name: "plan-activated"},
	{Name: "plan-upgrade"},
	{Name: "deal-closed"},
	{Name: "help-request", AdminTemplate: HelpRequestAdmin},
	{Name: HelpRequestAdmin, Internal: true},
	{Name: "freshly-painted"},
	{Name: "property-submitted", derive: deriveListingTierPrices},
	{Name: "property-rejected"},
	{Name: "show-interest", RecipientKeys: []string{"to", "email", "userEmail", "ownerEmail"}, StrictRecipient: true, derive: deriveAccessTierPrices},
	{Name: "mark-rented-sold", derive: deriveDealType},
	{Name: "contact-owner"},
	{Name: "visit-scheduled"},
	{Name: "payment-success"},
	{Name: "payment-invoice", derive: deriveInvoiceNumber},
	{Name: "services-application", derive: deriveUrgency},
	{Name: PasswordReset, Internal: true},
	{Name: PasswordResetSuccess, Internal: true},
}

// Rendered is a fully rendered email ready for the mailer.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

type entry struct {
	def  Definition
	html *htmltemplate.Template
	text *texttemplate.Template
}

type Options struct {
	AppName     string
	FrontendURL string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Catalogue holds the parsed email templates.
type Catalogue struct {
	entries     map[string]entry
	appName     string
	frontendURL string
	now         func() time.Time
}

// New parses every embedded template and fails if one is incomplete.
func New(opts Options) (*Catalogue, error) {
	if opts.AppName == "" {
		opts.AppName = "Home HNI"
	}
	if opts.FrontendURL == "" {
		opts.FrontendURL = "https://homehni.com"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	layout, err := htmltemplate.New("layout.html").
		Funcs(htmltemplate.FuncMap(funcs)).
		Option("missingkey=zero").
		ParseFS(mailFS, "mail/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	c := &Catalogue{
		entries:     make(map[string]entry, len(definitions)),
		appName:     opts.AppName,
		frontendURL: strings.TrimSuffix(opts.FrontendURL, "/"),
		now:         opts.Now,
	}
	for _, def := range definitions {
		e, err := parseEntry(layout, def)
		if err != nil {
			return nil, err
		}
		c.entries[def.Name] = e
	}
	return c, nil
}

func parseEntry(layout *htmltemplate.Template, def Definition) (entry, error) {
	file := "mail/" + def.Name + ".tmpl"

	h, err := layout.Clone()
	if err != nil {
		return entry{}, fmt.Errorf("failed to clone layout for %s: %w", def.Name, err)
	}
	if _, err := h.ParseFS(mailFS, file); err != nil {
		return entry{}, fmt.Errorf("failed to parse html template %s: %w", def.Name, err)
	}

	t, err := texttemplate.New(def.Name).
		Funcs(texttemplate.FuncMap(funcs)).
		Option("missingkey=zero").
		ParseFS(mailFS, file)
	if err != nil {
		return entry{}, fmt.Errorf("failed to parse text template %s: %w", def.Name, err)
	}

	if h.Lookup("content") == nil || t.Lookup("subject") == nil || t.Lookup("text") == nil {
		return entry{}, fmt.Errorf("template %s must define subject, content and text", def.Name)
	}
	return entry{def: def, html: h, text: t}, nil
}

// Lookup returns the definition registered under name.
func (c *Catalogue) Lookup(name string) (Definition, bool) {
	e, ok := c.entries[name]
	return e.def, ok
}

// Names lists the templates reachable through the send routes.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name, e := range c.entries {
		if !e.def.Internal {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Render executes the named template against fields. fields is not modified.
func (c *Catalogue) Render(name string, fields map[string]string) (*Rendered, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	data := c.data(e.def, fields)

	var subject, text, html bytes.Buffer
	if err := e.text.ExecuteTemplate(&subject, "subject", data); err != nil {
		return nil, fmt.Errorf("failed to render subject of %s: %w", name, err)
	}
	if err := e.text.ExecuteTemplate(&text, "text", data); err != nil {
		return nil, fmt.Errorf("failed to render text of %s: %w", name, err)
	}
	if err := e.html.ExecuteTemplate(&html, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render html of %s: %w", name, err)
	}

	return &Rendered{
		Subject: strings.TrimSpace(subject.String()),
		HTML:    html.String(),
		Text:    tidyText(text.String()),
	}, nil
}

func (c *Catalogue) data(def Definition, fields map[string]string) map[string]string {
	now := c.now()
	data := make(map[string]string, len(fields)+8)
	for k, v := range fields {
		data[k] = v
	}
	data["appName"] = c.appName
	data["frontendURL"] = c.frontendURL
	data["year"] = now.Format("2006")
	data["today"] = now.Format("02 Jan 2006")
	data["requestTime"] = now.Format("02 Jan 2006 15:04 MST")
	if def.derive != nil {
		def.derive(data, now)
	}
	return data
}

// tidyText squeezes the blank runs left behind by skipped optional sections.
func tidyText(s string) string {
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n")) + "\n"
}
