package mongo

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mailDoc struct {
	To      string     `bson:"to"`
	Message messageDoc `bson:"message"`
}

type messageDoc struct {
	Subject string `bson:"subject"`
	HTML    string `bson:"html"`
}

func (m *Mongo) AppendMail(ctx context.Context, doc entity.MailDocument) (_ string, err error) {
	ctx, span := m.startSpan(ctx, "AppendMail")
	defer func() { m.endSpan(span, err) }()

	res, err := m.mail.InsertOne(ctx, mailDoc{
		To:      doc.To,
		Message: messageDoc{Subject: doc.Message.Subject, HTML: doc.Message.HTML},
	})
	if err != nil {
		return "", m.mapError(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}
