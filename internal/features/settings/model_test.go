package settings

import (
	"reflect"
	"testing"
)

func TestRecipients(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "a@x.com", []string{"a@x.com"}},
		{"multiple with spaces", " a@x.com , b@x.com ", []string{"a@x.com", "b@x.com"}},
		{"duplicates collapsed", "a@x.com,b@x.com,a@x.com", []string{"a@x.com", "b@x.com"}},
		{"empty parts skipped", "a@x.com,,  ,b@x.com", []string{"a@x.com", "b@x.com"}},
		{"empty string", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := AppConfig{EmailRecipients: tt.input}
			if got := config.Recipients(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recipients() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsScheduleTime(t *testing.T) {
	valid := []string{"00:00", "07:00", "09:30", "23:59"}
	for _, s := range valid {
		if !IsScheduleTime(s) {
			t.Errorf("IsScheduleTime(%q) = false, want true", s)
		}
	}
	invalid := []string{"24:00", "7:00", "07:60", "0700", "07:00:00", "", "midnight"}
	for _, s := range invalid {
		if IsScheduleTime(s) {
			t.Errorf("IsScheduleTime(%q) = true, want false", s)
		}
	}
}

func TestTemplateStyleValidate(t *testing.T) {
	base := DefaultConfig().TemplateStyle

	if err := base.Validate(); err != nil {
		t.Fatalf("default style must validate, got %v", err)
	}

	short := base
	short.HeaderColor = "#fff"
	if err := short.Validate(); err != nil {
		t.Errorf("#rgb form must validate, got %v", err)
	}

	bad := base
	bad.FooterColor = "blue"
	if err := bad.Validate(); err == nil {
		t.Errorf("named colors must be rejected")
	}

	pos := base
	pos.LogoPosition = "top"
	if err := pos.Validate(); err == nil {
		t.Errorf("unknown logo position must be rejected")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	config := DefaultConfig()
	snap := config.Snapshot()

	config.EmailRecipients = "changed@x.com"
	config.TemplateStyle.HeaderColor = "#ff0000"

	if snap.EmailRecipients != "hr-team@company.com" {
		t.Errorf("snapshot must not observe later recipient edits")
	}
	if snap.TemplateStyle.HeaderColor != "#051c2c" {
		t.Errorf("snapshot must not observe later style edits")
	}
}
