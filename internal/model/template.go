package model

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned for an error-message template that is not known.
var ErrUnknownTemplate = errors.New("unknown error message template")

// Template names an error-message check variant.
type Template string

// Known templates.
const (
	TemplateOriginal  Template = "original"
	TemplateOptimized Template = "optimized"
	TemplateMinimal   Template = "minimal"
	TemplateLabels    Template = "labels"
	TemplateMinLabels Template = "min_labels"
)

// AllTemplates lists every template in the order they are run.
var AllTemplates = []Template{TemplateOriginal, TemplateOptimized, TemplateMinimal, TemplateLabels, TemplateMinLabels}

// TemplatesNone disables error-message checks when given as the only template.
const TemplatesNone = "none"

// PayloadKind selects how a counterexample is measured.
type PayloadKind int

const (
	// PayloadEdges counts flow edges of the error subgraph.
	PayloadEdges PayloadKind = iota
	// PayloadMarkers counts additional labels.
	PayloadMarkers
)

// ParseTemplate validates a template name.
func ParseTemplate(s string) (Template, error) {
	for _, t := range AllTemplates {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownTemplate, s)
}

// ParseTemplates resolves the requested template list. Nil selects all
// templates and the single entry "none" selects none.
func ParseTemplates(names []string) ([]Template, error) {
	if len(names) == 0 {
		return append([]Template(nil), AllTemplates...), nil
	}

	if len(names) == 1 && names[0] == TemplatesNone {
		return []Template{}, nil
	}

	templates := make([]Template, 0, len(names))

	for _, name := range names {
		t, err := ParseTemplate(name)
		if err != nil {
			return nil, err
		}

		templates = append(templates, t)
	}

	return templates, nil
}

// SignatureFragment is the fragment id of the signatures the template needs.
func (t Template) SignatureFragment() string {
	switch t {
	case TemplateOptimized:
		return "dfpp-props/err_msg_optimized_sigs"
	case TemplateLabels, TemplateMinLabels:
		return "dfpp-props/err_msg_labels_sigs"
	default:
		return "dfpp-props/err_msg_sigs"
	}
}

// BodyFragment is the fragment id of the template body.
func (t Template) BodyFragment() string {
	return "dfpp-props/err_msg_template_" + string(t)
}

// PayloadKind reports what the template's counterexample measures.
func (t Template) PayloadKind() PayloadKind {
	switch t {
	case TemplateLabels, TemplateMinLabels:
		return PayloadMarkers
	default:
		return PayloadEdges
	}
}
