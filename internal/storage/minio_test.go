package storage

import (
	"testing"
	"time"
)

func TestResumeObjectKey(t *testing.T) {
	uploadedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		app      string
		filename string
		want     string
	}{
		{"plain", "Jane Doe", "resume.pdf", "resumes/Jane_Doe_1717243200000.pdf"},
		{"punctuation collapsed", "O'Brien, Pat!", "cv.docx", "resumes/O_Brien_Pat_1717243200000.docx"},
		{"extension lowered", "Jane Doe", "Resume.PDF", "resumes/Jane_Doe_1717243200000.pdf"},
		{"no extension", "Jane Doe", "resume", "resumes/Jane_Doe_1717243200000.bin"},
		{"unusable name", "!!!", "resume.pdf", "resumes/applicant_1717243200000.pdf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResumeObjectKey(tc.app, tc.filename, uploadedAt); got != tc.want {
				t.Fatalf("ResumeObjectKey(%q, %q) = %q, want %q", tc.app, tc.filename, got, tc.want)
			}
		})
	}
}
