package archive

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/storage"
	"github.com/shandysiswandi/followup/internal/pkg/uid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Archive keeps a copy of every rendered report in object storage under
// reports/<variant>/<date>/<uuid>.html.
type Archive struct {
	client storage.Storage
	bucket string
	uuid   uid.StringID
	ins    instrument.Instrumentation
}

func NewArchive(client storage.Storage, bucket string, uuid uid.StringID, ins instrument.Instrumentation) *Archive {
	return &Archive{client: client, bucket: bucket, uuid: uuid, ins: ins}
}

func (a *Archive) ArchiveReport(ctx context.Context, v entity.Variant, date time.Time, html string) (string, error) {
	ctx, span := a.ins.Tracer("followup.outbound.archive").Start(ctx, "ArchiveReport")
	defer span.End()

	day := date.Format(entity.DateLayout)
	key := path.Join("reports", string(v), day, a.uuid.Generate()+".html")
	span.SetAttributes(attribute.String("storage.bucket", a.bucket), attribute.String("storage.key", key))

	if _, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(html), storage.PutOptions{
		Size:        int64(len(html)),
		ContentType: "text/html; charset=utf-8",
		Metadata:    map[string]string{"variant": string(v), "date": day},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return key, nil
}
