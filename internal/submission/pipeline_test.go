package submission

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"skaplSite/internal/database"
	"skaplSite/internal/turnstile"
)

type fakeVerifier struct {
	result turnstile.Result
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ turnstile.Form, _ string) (turnstile.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeBlobStore struct {
	uploaded map[string][]byte
	err      error
	calls    int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploaded: map[string][]byte{}}
}

func (f *fakeBlobStore) UploadResume(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(reader)
	f.uploaded[objectKey] = b
	return "https://example.invalid/" + objectKey, nil
}

type fakeRecorder struct {
	contacts []database.ContactSubmission
	careers  []database.CareerApplication
	err      error
}

func (f *fakeRecorder) CreateContact(_ context.Context, sub database.ContactSubmission) (database.ContactSubmission, error) {
	if f.err != nil {
		return database.ContactSubmission{}, f.err
	}
	sub.ID = uint(len(f.contacts) + 1)
	sub.CreatedAt = time.Now()
	f.contacts = append(f.contacts, sub)
	return sub, nil
}

func (f *fakeRecorder) CreateCareer(_ context.Context, app database.CareerApplication) (database.CareerApplication, error) {
	if f.err != nil {
		return database.CareerApplication{}, f.err
	}
	app.ID = uint(len(f.careers) + 1)
	app.CreatedAt = time.Now()
	f.careers = append(f.careers, app)
	return app, nil
}

func resumeFile(name, contentType string, data []byte) ResumeFile {
	return ResumeFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func newTestPipeline(verifier *fakeVerifier, blobs *fakeBlobStore, recorder *fakeRecorder) *Pipeline {
	return NewPipeline(Options{
		Verifier:       verifier,
		Blobs:          blobs,
		Recorder:       recorder,
		MaxResumeBytes: 5 * 1024 * 1024,
		Positions:      []string{"Energy Consultant", "Business Analyst"},
		Now:            func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func validCareerInput(file ResumeFile) CareerInput {
	return CareerInput{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Position: "Energy Consultant",
		Token:    "valid-token",
		Resume:   file,
	}
}

func TestSubmitContact_MissingFieldsSkipEverything(t *testing.T) {
	cases := []struct {
		name  string
		input ContactInput
		field string
	}{
		{"empty name", ContactInput{Email: "jane@example.com", Message: "Interested in solar consulting.", Token: "t"}, "name"},
		{"short name", ContactInput{Name: "J", Email: "jane@example.com", Message: "Interested in solar consulting.", Token: "t"}, "name"},
		{"bad email", ContactInput{Name: "Jane Doe", Email: "not-an-email", Message: "Interested in solar consulting.", Token: "t"}, "email"},
		{"short message", ContactInput{Name: "Jane Doe", Email: "jane@example.com", Message: "hi", Token: "t"}, "message"},
		{"missing token", ContactInput{Name: "Jane Doe", Email: "jane@example.com", Message: "Interested in solar consulting."}, "turnstileToken"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
			recorder := &fakeRecorder{}
			p := newTestPipeline(verifier, newFakeBlobStore(), recorder)

			_, err := p.SubmitContact(context.Background(), tc.input)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields)
			}
			if verifier.calls != 0 {
				t.Fatalf("verifier called %d times on invalid input", verifier.calls)
			}
			if len(recorder.contacts) != 0 {
				t.Fatalf("persistence write happened on invalid input")
			}
		})
	}
}

func TestSubmitContact_Success(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, newFakeBlobStore(), recorder)

	receipt, err := p.SubmitContact(context.Background(), ContactInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "Interested in solar consulting for our campus.",
		Token:   "valid-token",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID == 0 || receipt.CreatedAt.IsZero() {
		t.Fatalf("receipt missing server-assigned identity: %+v", receipt)
	}
	if len(recorder.contacts) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(recorder.contacts))
	}

	row := recorder.contacts[0]
	if row.Name != "Jane Doe" || row.Email != "jane@example.com" || row.Phone != "" ||
		row.Message != "Interested in solar consulting for our campus." {
		t.Fatalf("row fields mismatch: %+v", row)
	}
}

func TestSubmitContact_RejectedTokenBlocksPersistence(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: false}}
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, newFakeBlobStore(), recorder)

	_, err := p.SubmitContact(context.Background(), ContactInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "Interested in solar consulting for our campus.",
		Token:   "expired-token",
	})

	var cerr *VerificationError
	if !errors.As(err, &cerr) || !cerr.Rejected {
		t.Fatalf("expected rejected VerificationError, got %v", err)
	}
	if len(recorder.contacts) != 0 {
		t.Fatalf("persistence write happened after rejected token")
	}
}

func TestSubmitContact_VerifierOutageFailsClosed(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("connection refused")}
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, newFakeBlobStore(), recorder)

	_, err := p.SubmitContact(context.Background(), ContactInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "Interested in solar consulting for our campus.",
		Token:   "valid-token",
	})

	var cerr *VerificationError
	if !errors.As(err, &cerr) || cerr.Rejected {
		t.Fatalf("expected non-rejected VerificationError, got %v", err)
	}
	if len(recorder.contacts) != 0 {
		t.Fatalf("persistence write happened during verifier outage")
	}
}

func TestSubmitCareer_OversizedResumeRejectedBeforeUpload(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	blobs := newFakeBlobStore()
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, blobs, recorder)

	big := resumeFile("resume.pdf", MIMEPDF, nil)
	big.Size = 6 * 1024 * 1024

	_, err := p.SubmitCareer(context.Background(), validCareerInput(big))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if blobs.calls != 0 {
		t.Fatalf("upload attempted for oversized file")
	}
	if len(recorder.careers) != 0 {
		t.Fatalf("row written for oversized file")
	}
}

func TestSubmitCareer_DisallowedMIMERejectedBeforeUpload(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	blobs := newFakeBlobStore()
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, blobs, recorder)

	exe := resumeFile("resume.exe", "application/octet-stream", []byte("MZ"))

	_, err := p.SubmitCareer(context.Background(), validCareerInput(exe))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["resume"]; !ok {
		t.Fatalf("expected resume field error, got %v", verr.Fields)
	}
	if blobs.calls != 0 || len(recorder.careers) != 0 {
		t.Fatalf("side effects for disallowed MIME type")
	}
}

func TestSubmitCareer_UnknownPositionRejected(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	p := newTestPipeline(verifier, newFakeBlobStore(), &fakeRecorder{})

	in := validCareerInput(resumeFile("resume.pdf", MIMEPDF, []byte("%PDF-1.4")))
	in.Position = "Chief Astronaut"

	_, err := p.SubmitCareer(context.Background(), in)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier called for unknown position")
	}
}

func TestSubmitCareer_RejectedTokenBlocksUploadAndPersistence(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: false}}
	blobs := newFakeBlobStore()
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, blobs, recorder)

	_, err := p.SubmitCareer(context.Background(), validCareerInput(resumeFile("resume.pdf", MIMEPDF, []byte("%PDF-1.4"))))

	var cerr *VerificationError
	if !errors.As(err, &cerr) || !cerr.Rejected {
		t.Fatalf("expected rejected VerificationError, got %v", err)
	}
	if blobs.calls != 0 {
		t.Fatalf("upload attempted after rejected token")
	}
	if len(recorder.careers) != 0 {
		t.Fatalf("row written after rejected token")
	}
}

func TestSubmitCareer_Success(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	blobs := newFakeBlobStore()
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, blobs, recorder)

	content := []byte("%PDF-1.4 fake resume")
	receipt, err := p.SubmitCareer(context.Background(), validCareerInput(resumeFile("Resume Final.pdf", MIMEPDF, content)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID == 0 {
		t.Fatalf("missing receipt id")
	}

	wantKey := "resumes/Jane_Doe_1717243200000.pdf"
	stored, ok := blobs.uploaded[wantKey]
	if !ok {
		t.Fatalf("expected object %q, have %v", wantKey, blobs.uploaded)
	}
	if !bytes.Equal(stored, content) {
		t.Fatalf("uploaded bytes differ from submitted file")
	}

	if len(recorder.careers) != 1 {
		t.Fatalf("expected one row, got %d", len(recorder.careers))
	}
	row := recorder.careers[0]
	if row.Status != "New" {
		t.Fatalf("expected status New, got %q", row.Status)
	}
	if !strings.Contains(row.ResumeURL, wantKey) {
		t.Fatalf("resume url %q does not reference object key", row.ResumeURL)
	}
	if !strings.Contains(string(row.ResumeMeta), wantKey) {
		t.Fatalf("resume meta %s does not carry object key", row.ResumeMeta)
	}
}

func TestSubmitCareer_UploadFailureWritesNoRow(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	blobs := newFakeBlobStore()
	blobs.err = errors.New("bucket unavailable")
	recorder := &fakeRecorder{}
	p := newTestPipeline(verifier, blobs, recorder)

	_, err := p.SubmitCareer(context.Background(), validCareerInput(resumeFile("resume.pdf", MIMEPDF, []byte("%PDF-1.4"))))

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if len(recorder.careers) != 0 {
		t.Fatalf("row written after failed upload")
	}
}

func TestSubmitCareer_PersistenceFailureLeavesBlob(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	blobs := newFakeBlobStore()
	recorder := &fakeRecorder{err: errors.New("insert failed")}
	p := newTestPipeline(verifier, blobs, recorder)

	_, err := p.SubmitCareer(context.Background(), validCareerInput(resumeFile("resume.pdf", MIMEPDF, []byte("%PDF-1.4"))))

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	// The orphaned blob stays retrievable; cleanup is a manual operator action.
	if len(blobs.uploaded) != 1 {
		t.Fatalf("expected orphaned blob to remain, have %d", len(blobs.uploaded))
	}
}

type fakeScanner struct {
	err   error
	calls int
}

func (f *fakeScanner) Scan(_ context.Context, reader io.Reader) error {
	f.calls++
	_, _ = io.Copy(io.Discard, reader)
	return f.err
}

func TestSubmitCareer_InfectedFileRejected(t *testing.T) {
	verifier := &fakeVerifier{result: turnstile.Result{Success: true}}
	blobs := newFakeBlobStore()
	scanner := &fakeScanner{err: ErrInfected}
	p := NewPipeline(Options{
		Verifier:       verifier,
		Blobs:          blobs,
		Recorder:       &fakeRecorder{},
		Scanner:        scanner,
		MaxResumeBytes: 5 * 1024 * 1024,
		Positions:      []string{"Energy Consultant"},
	})

	in := validCareerInput(resumeFile("resume.pdf", MIMEPDF, []byte("%PDF-1.4")))
	_, err := p.SubmitCareer(context.Background(), in)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if scanner.calls != 1 {
		t.Fatalf("expected one scan, got %d", scanner.calls)
	}
	if blobs.calls != 0 {
		t.Fatalf("infected file was uploaded")
	}
}
