package proof

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader stores payment-proof artifacts in blob storage and returns the
// stored path reference.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Key builds the object key for a proof artifact, scoped by user and the
// first order of the checkout batch.
func Key(userID string, orderID uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "proof"
	}
	return fmt.Sprintf("payment-proofs/%s/%s-%s", userID, orderID, name)
}

// LocalPath synthesizes the degraded path reference recorded when the
// blob upload fails. The proof record still points somewhere, but the
// artifact itself was not persisted remotely.
func LocalPath(orderID uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "proof"
	}
	return fmt.Sprintf("local/payment-proofs/%d-%s-%s", time.Now().Unix(), orderID, name)
}
