package submission

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"skaplSite/internal/database"
	"skaplSite/internal/storage"
	"skaplSite/internal/turnstile"
)

// Verifier redeems a challenge token with the bot-mitigation vendor.
type Verifier interface {
	Verify(ctx context.Context, form turnstile.Form, token string) (turnstile.Result, error)
}

// BlobStore stores resume files and returns a retrievable URL.
type BlobStore interface {
	UploadResume(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
}

// Recorder writes one durable row per accepted submission.
type Recorder interface {
	CreateContact(ctx context.Context, sub database.ContactSubmission) (database.ContactSubmission, error)
	CreateCareer(ctx context.Context, app database.CareerApplication) (database.CareerApplication, error)
}

// Scanner checks upload content before it is stored.
type Scanner interface {
	Scan(ctx context.Context, reader io.Reader) error
}

// Receipt reports the server-assigned identity of a stored submission.
type Receipt struct {
	ID        uint
	CreatedAt time.Time
}

// Options wires a Pipeline. Verifier, Blobs and Recorder are required;
// Scanner is optional.
type Options struct {
	Verifier       Verifier
	Blobs          BlobStore
	Recorder       Recorder
	Scanner        Scanner
	Logger         *slog.Logger
	MaxResumeBytes int64
	Positions      []string
	Now            func() time.Time
}

// Pipeline runs a submission through validate, verify, (scan, upload) and
// persist. Each step gates the next; there are no automatic retries, and a
// failed step leaves at most one orphaned blob behind.
type Pipeline struct {
	verifier       Verifier
	blobs          BlobStore
	recorder       Recorder
	scanner        Scanner
	logger         *slog.Logger
	maxResumeBytes int64
	positions      map[string]struct{}
	now            func() time.Time
}

// NewPipeline builds a Pipeline from opts.
func NewPipeline(opts Options) *Pipeline {
	positions := make(map[string]struct{}, len(opts.Positions))
	for _, p := range opts.Positions {
		positions[p] = struct{}{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	maxBytes := opts.MaxResumeBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &Pipeline{
		verifier:       opts.Verifier,
		blobs:          opts.Blobs,
		recorder:       opts.Recorder,
		scanner:        opts.Scanner,
		logger:         logger,
		maxResumeBytes: maxBytes,
		positions:      positions,
		now:            now,
	}
}

// SubmitContact validates, verifies and persists one contact submission.
func (p *Pipeline) SubmitContact(ctx context.Context, in ContactInput) (*Receipt, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	if err := p.verifyToken(ctx, turnstile.FormContact, in.Token); err != nil {
		return nil, err
	}

	row, err := p.recorder.CreateContact(ctx, database.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
	})
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return &Receipt{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// resumeMeta is stored as JSONB next to the signed URL so links can be
// regenerated from ObjectKey after they expire.
type resumeMeta struct {
	ObjectKey    string `json:"object_key"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	UploadedAt   string `json:"uploaded_at"`
}

// SubmitCareer validates, verifies, scans, uploads the resume and persists
// one career application. If the row insert fails after the upload, the blob
// stays put and its key is logged for manual cleanup.
func (p *Pipeline) SubmitCareer(ctx context.Context, in CareerInput) (*Receipt, error) {
	if verr := in.validate(p.positions, p.maxResumeBytes); verr != nil {
		return nil, verr
	}

	if err := p.verifyToken(ctx, turnstile.FormCareer, in.Token); err != nil {
		return nil, err
	}

	if p.scanner != nil {
		if err := p.scanResume(ctx, in.Resume); err != nil {
			return nil, err
		}
	}

	uploadedAt := p.now()
	objectKey := storage.ResumeObjectKey(in.Name, in.Resume.Filename, uploadedAt)

	reader, err := in.Resume.Open()
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	resumeURL, err := p.blobs.UploadResume(ctx, objectKey, reader, in.Resume.Size, in.Resume.ContentType)
	reader.Close()
	if err != nil {
		return nil, &UploadError{Err: err}
	}

	meta, err := json.Marshal(resumeMeta{
		ObjectKey:    objectKey,
		OriginalName: in.Resume.Filename,
		ContentType:  in.Resume.ContentType,
		SizeBytes:    in.Resume.Size,
		UploadedAt:   uploadedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		meta = []byte("{}")
	}

	row, err := p.recorder.CreateCareer(ctx, database.CareerApplication{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		PositionApplied: in.Position,
		CoverLetter:     in.CoverLetter,
		ResumeURL:       resumeURL,
		ResumeMeta:      meta,
		Status:          "New",
	})
	if err != nil {
		// Accepted failure mode: the blob is now an orphan. No rollback,
		// just enough context for an operator to clean it up.
		p.logger.Error("career row insert failed after resume upload",
			slog.String("object_key", objectKey),
			slog.String("error", err.Error()),
		)
		return nil, &PersistenceError{Err: err}
	}

	return &Receipt{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

func (p *Pipeline) verifyToken(ctx context.Context, form turnstile.Form, token string) error {
	result, err := p.verifier.Verify(ctx, form, token)
	if err != nil {
		return &VerificationError{Err: err}
	}
	if !result.Success {
		return &VerificationError{Rejected: true}
	}
	return nil
}

func (p *Pipeline) scanResume(ctx context.Context, file ResumeFile) error {
	reader, err := file.Open()
	if err != nil {
		return &UploadError{Err: err}
	}
	defer reader.Close()

	if err := p.scanner.Scan(ctx, reader); err != nil {
		if errors.Is(err, ErrInfected) {
			return &ValidationError{Fields: map[string]string{"resume": "malicious file detected"}}
		}
		return &UploadError{Err: err}
	}
	return nil
}
