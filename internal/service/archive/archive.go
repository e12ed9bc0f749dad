// Package archive keeps a copy of every email body the pipeline sends.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

type Archiver struct {
	client *minio.Client
	bucket string
}

// NewArchiver accepts a nil client; Store is then a no-op.
func NewArchiver(client *minio.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil
}

func (a *Archiver) Store(ctx context.Context, key, html string) error {
	if !a.Enabled() {
		return nil
	}

	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(html), int64(len(html)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to archive email %s: %w", key, err)
	}
	return nil
}

// EmailKey partitions archived bodies by send date.
func EmailKey(sentAt time.Time, name string) string {
	return fmt.Sprintf("emails/%s/%s.html", sentAt.UTC().Format("2006/01/02"), name)
}
