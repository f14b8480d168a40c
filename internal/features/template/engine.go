package template

import (
	"fmt"
	"html/template"
	"strings"

	common_models "go-briefing/internal/common/models"
	"go-briefing/internal/features/settings"
)

// InvalidStyleError signals a style configuration the engine refuses to
// render with
type InvalidStyleError struct {
	Cause error
}

func (e *InvalidStyleError) Error() string {
	return fmt.Sprintf("invalid template style: %v", e.Cause)
}

func (e *InvalidStyleError) Unwrap() error { return e.Cause }

// defaultFontFamily is used when the style carries no font
const defaultFontFamily = "serif"

var documentTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f1f5f9;font-family:{{.FontFamily}};">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0">
<tr><td align="center" style="padding:24px 0;">
<table role="presentation" width="640" cellpadding="0" cellspacing="0" style="background-color:#ffffff;">
<tr><td style="background-color:{{.Style.HeaderColor}};color:{{.Style.HeaderTextColor}};padding:32px 40px;text-align:{{.LogoAlign}};">
{{- if .Style.LogoUrl}}
<img src="{{.Style.LogoUrl}}" alt="logo" height="40" style="display:inline-block;margin-bottom:16px;">
{{- end}}
<h1 style="margin:0;font-size:24px;letter-spacing:2px;">{{.Layout.HeaderTitle}}</h1>
<p style="margin:8px 0 0;font-size:12px;letter-spacing:1px;">{{.Layout.HeaderSubtitle}}</p>
</td></tr>
<tr><td style="padding:32px 40px;">
<h2 style="margin:0 0 24px;font-size:20px;color:#0f172a;">{{.Content.Title}}</h2>
{{- range .Content.Sections}}
<div style="margin-bottom:28px;">
<h3 style="margin:0 0 8px;font-size:16px;color:#1e293b;">{{.Heading}}</h3>
<p style="margin:0;font-size:14px;line-height:1.7;color:#334155;">{{.Body}}</p>
</div>
{{- end}}
</td></tr>
<tr><td style="background-color:{{.Style.FooterColor}};color:{{.Style.FooterTextColor}};padding:24px 40px;font-size:12px;line-height:1.6;">
{{.FooterHTML}}
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>
`))

type templateData struct {
	Style      settings.TemplateStyle
	Layout     settings.EmailLayout
	Content    *common_models.GeneratedContent
	FontFamily string
	LogoAlign  string
	FooterHTML template.HTML
}

// Render merges generated content with the style and layout configuration
// into a complete HTML document. It is deterministic and touches neither
// network nor storage.
func Render(content *common_models.GeneratedContent, style settings.TemplateStyle, layout settings.EmailLayout) (string, error) {
	if content.IsEmpty() {
		return "", fmt.Errorf("nothing to render: content is empty")
	}
	if err := style.Validate(); err != nil {
		return "", &InvalidStyleError{Cause: err}
	}

	font := style.FontFamily
	if font == "" {
		font = defaultFontFamily
	}

	var sb strings.Builder
	err := documentTemplate.Execute(&sb, templateData{
		Style:      style,
		Layout:     layout,
		Content:    content,
		FontFamily: font,
		LogoAlign:  string(style.LogoPosition),
		FooterHTML: footerHTML(layout.FooterContent),
	})
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// footerHTML escapes the multi-line footer text and preserves its line breaks
func footerHTML(footer string) template.HTML {
	lines := strings.Split(footer, "\n")
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(escaped, "<br>"))
}
