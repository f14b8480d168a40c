package scheduler

import (
	"testing"
	"time"
)

func TestCronSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "07:00", want: "0 7 * * *"},
		{in: "00:00", want: "0 0 * * *"},
		{in: "23:59", want: "59 23 * * *"},
		{in: "7:00", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "07:60", wantErr: true},
		{in: "", wantErr: true},
		{in: "seven", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CronSpec(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CronSpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("CronSpec(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextFire(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name         string
		scheduleTime string
		now          time.Time
		want         time.Time
	}{
		{
			name:         "before the scheduled time fires today",
			scheduleTime: "07:00",
			now:          day.Add(6*time.Hour + 59*time.Minute),
			want:         day.Add(7 * time.Hour),
		},
		{
			name:         "after the scheduled time fires tomorrow",
			scheduleTime: "07:00",
			now:          day.Add(7*time.Hour + 1*time.Minute),
			want:         day.Add(24*time.Hour + 7*time.Hour),
		},
		{
			name:         "exactly at the scheduled time fires tomorrow",
			scheduleTime: "07:00",
			now:          day.Add(7 * time.Hour),
			want:         day.Add(24*time.Hour + 7*time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextFire(tt.scheduleTime, tt.now)
			if err != nil {
				t.Fatalf("NextFire() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextFire() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextFireInvalid(t *testing.T) {
	if _, err := NextFire("25:00", time.Now()); err == nil {
		t.Errorf("expected error for invalid schedule time")
	}
}
