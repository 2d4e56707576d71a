package db

import (
	"context"
	"strconv"

	"github.com/shandysiswandi/followup/internal/followup/entity"
)

const insertMail = `
INSERT INTO followup_mail (id, to_address, message, created_at)
VALUES ($1, $2, $3, $4)`

type messageRow struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *DB) AppendMail(ctx context.Context, doc entity.MailDocument) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "AppendMail")
	defer func() { s.endSpan(span, err) }()

	id := s.uid.Generate()
	msg := messageRow{Subject: doc.Message.Subject, HTML: doc.Message.HTML}

	if _, err := s.conn.Exec(ctx, insertMail, id, doc.To, msg, s.clock.Now()); err != nil {
		return "", s.mapError(err)
	}

	return strconv.FormatInt(id, 10), nil
}
