package service

import (
	"context"
	"fmt"
	"net/url"

	"gamedash/api/aws"
	"gamedash/api/internal/model"

	"github.com/jonboulle/clockwork"
)

// Archiver keeps a copy of the raw upstream payloads of a lookup
type Archiver interface {
	Archive(ctx context.Context, game model.GameID, playerID string, snapshot any) error
}

type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, model.GameID, string, any) error { return nil }

// S3Archiver writes every snapshot as its own JSON object
type S3Archiver struct {
	client *aws.S3Client
	clock  clockwork.Clock
}

func NewS3Archiver(client *aws.S3Client, clock clockwork.Clock) *S3Archiver {
	return &S3Archiver{client: client, clock: clock}
}

func (a *S3Archiver) Archive(ctx context.Context, game model.GameID, playerID string, snapshot any) error {
	return a.client.PutJSON(ctx, snapshotKey(game, playerID, a.clock), snapshot)
}

func snapshotKey(game model.GameID, playerID string, clock clockwork.Clock) string {
	return fmt.Sprintf("snapshots/%s/%s/%d.json", game, url.PathEscape(playerID), clock.Now().UnixMilli())
}
