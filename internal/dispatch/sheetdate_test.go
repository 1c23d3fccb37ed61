package dispatch

import (
	"testing"
	"time"
)

func TestHasTabDate(t *testing.T) {
	tests := []struct {
		tabName string
		want    bool
	}{
		{"3월5일", true},
		{"12월 31일", true},
		{"8월20일 (수정)", true},
		{"요약", false},
		{"총계", false},
		{"메모", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasTabDate(tt.tabName); got != tt.want {
			t.Errorf("HasTabDate(%q) = %v, want %v", tt.tabName, got, tt.want)
		}
	}
}

func TestResolveSheetDate(t *testing.T) {
	now := time.Date(2024, 8, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tabName  string
		fileName string
		want     string
	}{
		{
			name:     "year from file, month and day from tab",
			tabName:  "3월5일",
			fileName: "배차표(2023년) 상반기",
			want:     "2023-03-05",
		},
		{
			name:     "tab with spaces and two-digit parts",
			tabName:  "12월 31일",
			fileName: "배차표(2023년)",
			want:     "2023-12-31",
		},
		{
			name:     "file without year pattern uses current year",
			tabName:  "7월9일",
			fileName: "사본 - 배차 내역",
			want:     "2024-07-09",
		},
		{
			name:     "tab without date pattern falls back to today entirely",
			tabName:  "메모",
			fileName: "배차표(2021년)",
			// The file-name year is ignored here on purpose; stored day
			// ids depend on this fallback shape.
			want: "2024-08-20",
		},
		{
			name:     "empty tab name falls back to today",
			tabName:  "",
			fileName: "배차표(2022년)",
			want:     "2024-08-20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSheetDate(tt.tabName, tt.fileName, now)
			if got != tt.want {
				t.Errorf("ResolveSheetDate(%q, %q) = %q, want %q", tt.tabName, tt.fileName, got, tt.want)
			}
		})
	}
}
