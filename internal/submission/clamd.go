package submission

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected is returned by a Scanner when the content is malicious.
var ErrInfected = errors.New("malicious file detected")

// ClamdScanner streams upload content to a clamd daemon.
type ClamdScanner struct {
	addr string
}

// NewClamdScanner returns a scanner talking to the clamd at addr.
func NewClamdScanner(addr string) *ClamdScanner {
	return &ClamdScanner{addr: addr}
}

// Scan implements Scanner. Any non-OK scan result is ErrInfected; transport
// failures are returned as-is so the caller can treat them as infrastructure
// errors rather than a clean bill.
func (s *ClamdScanner) Scan(ctx context.Context, reader io.Reader) error {
	client := clamd.NewClamd(s.addr)

	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := client.ScanStream(reader, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for result := range scanChan {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if result.Status != clamd.RES_OK {
			return ErrInfected
		}
	}
	return nil
}
