package ui

import "html/template"

// Element ids the initializer drives
const (
	ElementBadge         = "userTypeBadge"
	ElementTokenDisplay  = "tokenDisplay"
	ElementSignupSection = "signupSection"
	ElementSignupLink    = "signupLink"
)

// Markup reports which page elements exist.
type Markup interface {
	Has(element string) bool
}

type templateMarkup struct {
	tmpl *template.Template
}

// TemplateMarkup treats every named template or block of tmpl as an element.
func TemplateMarkup(tmpl *template.Template) Markup {
	return templateMarkup{tmpl: tmpl}
}

func (m templateMarkup) Has(element string) bool {
	return m.tmpl != nil && m.tmpl.Lookup(element) != nil
}

// ElementSet is a fixed Markup, mostly for tests.
type ElementSet map[string]bool

func (s ElementSet) Has(element string) bool {
	return s[element]
}

// AllElements returns an ElementSet holding every element the initializer uses.
func AllElements() ElementSet {
	return ElementSet{
		ElementBadge:         true,
		ElementTokenDisplay:  true,
		ElementSignupSection: true,
		ElementSignupLink:    true,
	}
}
