package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/shandysiswandi/followup/internal/pkg/clock"
	"github.com/shandysiswandi/followup/internal/pkg/instrument"
	"github.com/shandysiswandi/followup/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const central = "boss@example.com"

var errStore = errors.New("store unavailable")

type fakeStore struct {
	users     []entity.UserRecord
	scanErr   error
	failAt    int
	appendErr error

	scans int
	mails []entity.MailDocument
}

func (f *fakeStore) ScanUsers(_ context.Context, fn func(entity.UserRecord) error) error {
	f.scans++
	for i, u := range f.users {
		if f.scanErr != nil && i == f.failAt {
			return f.scanErr
		}
		if err := fn(u); err != nil {
			return err
		}
	}
	if f.scanErr != nil && f.failAt >= len(f.users) {
		return f.scanErr
	}
	return nil
}

func (f *fakeStore) AppendMail(_ context.Context, doc entity.MailDocument) (string, error) {
	if f.appendErr != nil {
		return "", f.appendErr
	}
	f.mails = append(f.mails, doc)
	return fmt.Sprintf("mail-%d", len(f.mails)), nil
}

type fakeEvent struct {
	err  error
	msgs []entity.MailQueued
}

func (f *fakeEvent) PublishMailQueued(_ context.Context, msg entity.MailQueued) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

type archived struct {
	variant entity.Variant
	date    string
	html    string
}

type fakeArchive struct {
	err   error
	items []archived
}

func (f *fakeArchive) ArchiveReport(_ context.Context, v entity.Variant, date time.Time, html string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.items = append(f.items, archived{variant: v, date: date.Format(entity.DateLayout), html: html})
	return "reports/" + string(v) + "/" + date.Format(entity.DateLayout) + "/x.html", nil
}

// refNow is 08:00 on 2024-02-01 UTC, the reference day used across tests.
var refNow = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

func newTestUsecase(t *testing.T, dep Dependency) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	if dep.Settings.CentralRecipient == "" {
		dep.Settings.CentralRecipient = central
	}
	if dep.Settings.Location == nil {
		dep.Settings.Location = time.UTC
	}
	if dep.Clock == nil {
		dep.Clock = clock.NewFixed(refNow)
	}
	if dep.Validator == nil {
		dep.Validator = v
	}
	if dep.Instrument == nil {
		dep.Instrument = instrument.NewNoop()
	}

	uc, err := NewFollowup(dep)
	require.NoError(t, err)
	return uc
}

func TestNewFollowup_Required(t *testing.T) {
	_, err := NewFollowup(Dependency{Settings: Settings{CentralRecipient: central}})
	assert.Error(t, err)

	_, err = NewFollowup(Dependency{RepoStore: &fakeStore{}})
	assert.Error(t, err)

	uc, err := NewFollowup(Dependency{RepoStore: &fakeStore{}, Settings: Settings{CentralRecipient: central}})
	require.NoError(t, err)
	assert.Equal(t, time.Local, uc.settings.Location)
}

// bobAndCarl is the two-user fixture: Carl's worker has no email.
func bobAndCarl(day string) []entity.UserRecord {
	return []entity.UserRecord{
		{ID: "u1", Email: "a@x.com", Customers: []entity.CustomerRecord{{Name: "Bob", Address: "1 Main St", DueDate: day}}},
		{ID: "u2", Email: "", Customers: []entity.CustomerRecord{{Name: "Carl", Address: "2 Oak Rd", DueDate: day}}},
	}
}
