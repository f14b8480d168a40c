package settings

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LogoPosition placement of the logo inside the rendered header
type LogoPosition string

const (
	LogoLeft   LogoPosition = "left"
	LogoCenter LogoPosition = "center"
	LogoRight  LogoPosition = "right"
)

// TemplateStyle controls the visual treatment of the rendered newsletter
type TemplateStyle struct {
	HeaderColor     string       `json:"header_color" bson:"header_color"`
	HeaderTextColor string       `json:"header_text_color" bson:"header_text_color"`
	FooterColor     string       `json:"footer_color" bson:"footer_color"`
	FooterTextColor string       `json:"footer_text_color" bson:"footer_text_color"`
	FontFamily      string       `json:"font_family" bson:"font_family"`
	LogoUrl         string       `json:"logo_url" bson:"logo_url"`
	LogoPosition    LogoPosition `json:"logo_position" bson:"logo_position"`
}

// EmailLayout holds the fixed header/footer copy of the rendered newsletter
type EmailLayout struct {
	HeaderTitle    string `json:"header_title" bson:"header_title"`
	HeaderSubtitle string `json:"header_subtitle" bson:"header_subtitle"`
	FooterContent  string `json:"footer_content" bson:"footer_content"`
}

// AppConfig is the process-wide configuration, stored as a single document
// and mutated only through the settings endpoints
type AppConfig struct {
	EmailRecipients   string        `json:"email_recipients" bson:"email_recipients"`
	WebhookURL        string        `json:"webhook_url" bson:"webhook_url"`
	WebhookSecret     string        `json:"webhook_secret,omitempty" bson:"webhook_secret,omitempty"`
	SpreadsheetID     string        `json:"spreadsheet_id" bson:"spreadsheet_id"`
	ScheduleTime      string        `json:"schedule_time" bson:"schedule_time"`
	SystemInstruction string        `json:"system_instruction" bson:"system_instruction"`
	TemplateStyle     TemplateStyle `json:"template_style" bson:"template_style"`
	EmailLayout       EmailLayout   `json:"email_layout" bson:"email_layout"`

	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Snapshot is an immutable per-run copy of AppConfig. AppConfig contains only
// value fields, so a plain struct copy is a deep copy.
type Snapshot struct {
	AppConfig
	TakenAt time.Time
}

// Snapshot captures the config at trigger time
func (c AppConfig) Snapshot() Snapshot {
	return Snapshot{AppConfig: c, TakenAt: time.Now()}
}

// Recipients parses the comma-delimited recipient string into an ordered,
// de-duplicated address list
func (c AppConfig) Recipients() []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(c.EmailRecipients, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	timeRe     = regexp.MustCompile(`^(?:[01]\d|2[0-3]):[0-5]\d$`)
)

// IsHexColor reports whether s is a #rgb or #rrggbb color string
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// IsScheduleTime reports whether s is a valid HH:MM 24h time-of-day
func IsScheduleTime(s string) bool {
	return timeRe.MatchString(s)
}

// Validate checks the style fields the template engine depends on
func (t TemplateStyle) Validate() error {
	for name, color := range map[string]string{
		"header_color":      t.HeaderColor,
		"header_text_color": t.HeaderTextColor,
		"footer_color":      t.FooterColor,
		"footer_text_color": t.FooterTextColor,
	} {
		if !IsHexColor(color) {
			return fmt.Errorf("invalid %s: %q is not a hex color", name, color)
		}
	}
	switch t.LogoPosition {
	case LogoLeft, LogoCenter, LogoRight:
	default:
		return fmt.Errorf("invalid logo_position: %q", t.LogoPosition)
	}
	return nil
}

// DefaultConfig mirrors the out-of-the-box configuration of the dashboard
func DefaultConfig() AppConfig {
	return AppConfig{
		EmailRecipients: "hr-team@company.com",
		ScheduleTime:    "07:00",
		TemplateStyle: TemplateStyle{
			HeaderColor:     "#051c2c",
			HeaderTextColor: "#ffffff",
			FooterColor:     "#ffffff",
			FooterTextColor: "#94a3b8",
			FontFamily:      "serif",
			LogoUrl:         "",
			LogoPosition:    LogoLeft,
		},
		EmailLayout: EmailLayout{
			HeaderTitle:    "HR STRATEGY BRIEFING",
			HeaderSubtitle: "CONFIDENTIAL • INTERNAL USE ONLY",
			FooterContent:  "This automated briefing is generated for executive leadership.\nData Source: Labor Today, Global HR Institutes.",
		},
	}
}
