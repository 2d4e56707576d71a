package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDay = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

func TestRun_PerUserBobAndCarl(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01")}
	ev := &fakeEvent{}
	ar := &fakeArchive{}
	uc := newTestUsecase(t, Dependency{RepoStore: store, RepoEvent: ev, RepoArchive: ar})

	res, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailyPerUser), refDay)
	require.NoError(t, err)

	assert.Equal(t, entity.RunResult{
		Variant: entity.VariantDailyPerUser,
		Items:   1,
		Mails:   1,
		Skipped: 1,
		MailIDs: []string{"mail-1"},
	}, res)

	require.Len(t, store.mails, 1)
	mail := store.mails[0]
	assert.Equal(t, "a@x.com", mail.To)
	assert.Equal(t, "You have 1 follow-up(s) due today!", mail.Message.Subject)
	assert.Contains(t, mail.Message.HTML, "<li><b>Bob</b> at 1 Main St</li>")
	assert.NotContains(t, mail.Message.HTML, "Carl")

	assert.Equal(t, []entity.MailQueued{{
		MailID:    "mail-1",
		To:        "a@x.com",
		Variant:   entity.VariantDailyPerUser,
		ItemCount: 1,
		Date:      "2024-02-01",
	}}, ev.msgs)

	require.Len(t, ar.items, 1)
	assert.Equal(t, entity.VariantDailyPerUser, ar.items[0].variant)
	assert.Equal(t, "2024-02-01", ar.items[0].date)
	assert.Equal(t, mail.Message.HTML, ar.items[0].html)
}

func TestRun_SummaryBobAndCarl(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01")}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	res, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailySummary), refDay)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Items)

	require.Len(t, store.mails, 1)
	assert.Equal(t, central, store.mails[0].To)
	assert.Equal(t, "Daily summary: 1 follow-up(s) due today", store.mails[0].Message.Subject)
	assert.Contains(t, store.mails[0].Message.HTML, "<li><b>Bob</b> at 1 Main St (a@x.com)</li>")
	assert.NotContains(t, store.mails[0].Message.HTML, "Carl")
}

func TestRun_PerUserOneMailEach(t *testing.T) {
	store := &fakeStore{users: []entity.UserRecord{
		{ID: "u1", Email: "a@x.com", Customers: []entity.CustomerRecord{
			{Name: "Bob", DueDate: "2024-02-01"},
			{Name: "Old", DueDate: "2024-01-01"},
			{Name: "Dan", DueDate: "2024-02-01"},
		}},
		{ID: "u2", Email: "b@x.com", Customers: []entity.CustomerRecord{{Name: "Old", DueDate: "2024-01-01"}}},
		{ID: "u3", Email: "c@x.com", Customers: []entity.CustomerRecord{{Name: "Fay", DueDate: "2024-02-01"}}},
	}}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	res, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailyPerUser), refDay)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Items)
	assert.Equal(t, 2, res.Mails)

	require.Len(t, store.mails, 2)
	assert.Equal(t, "a@x.com", store.mails[0].To)
	assert.Equal(t, "You have 2 follow-up(s) due today!", store.mails[0].Message.Subject)
	assert.Equal(t, "c@x.com", store.mails[1].To)
	assert.Equal(t, "You have 1 follow-up(s) due today!", store.mails[1].Message.Subject)
}

func TestRun_OverdueSortedAcrossUsers(t *testing.T) {
	store := &fakeStore{users: []entity.UserRecord{
		{ID: "u1", Email: "a@x.com", Customers: []entity.CustomerRecord{{Name: "Later", Address: "L", DueDate: "2024-01-03"}}},
		{ID: "u2", Email: "b@x.com", Customers: []entity.CustomerRecord{{Name: "Earlier", Address: "E", DueDate: "2024-01-01"}}},
	}}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	res, err := uc.Run(context.Background(), pipeline(t, entity.VariantOverdueReport), refDay)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Items)

	require.Len(t, store.mails, 1)
	html := store.mails[0].Message.HTML
	assert.Equal(t, central, store.mails[0].To)
	assert.Less(t, strings.Index(html, "Earlier"), strings.Index(html, "Later"))
	assert.Contains(t, html, "due 01/01/2024 (b@x.com)")
}

func TestRun_NothingToReport(t *testing.T) {
	for _, v := range []entity.Variant{entity.VariantDailyPerUser, entity.VariantDailySummary, entity.VariantOverdueReport} {
		t.Run(string(v), func(t *testing.T) {
			store := &fakeStore{users: []entity.UserRecord{
				{ID: "u1", Email: "a@x.com", Customers: []entity.CustomerRecord{{Name: "Soon", DueDate: "2024-03-01"}}},
				{ID: "u2", Email: "b@x.com"},
			}}
			ev := &fakeEvent{}
			ar := &fakeArchive{}
			uc := newTestUsecase(t, Dependency{RepoStore: store, RepoEvent: ev, RepoArchive: ar})

			res, err := uc.Run(context.Background(), pipeline(t, v), refDay)
			require.NoError(t, err)
			assert.Zero(t, res.Mails)
			assert.Empty(t, store.mails)
			assert.Empty(t, ev.msgs)
			assert.Empty(t, ar.items)
		})
	}
}

func TestRun_StoreErrorKeepsEarlierMails(t *testing.T) {
	store := &fakeStore{
		users: []entity.UserRecord{
			{ID: "u1", Email: "a@x.com", Customers: []entity.CustomerRecord{{Name: "Bob", DueDate: "2024-02-01"}}},
			{ID: "u2", Email: "b@x.com", Customers: []entity.CustomerRecord{{Name: "Dan", DueDate: "2024-02-01"}}},
		},
		scanErr: errStore,
		failAt:  1,
	}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	res, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailyPerUser), refDay)
	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, 1, res.Mails)
	assert.Len(t, store.mails, 1)
}

func TestRun_CentralWritesNothingOnScanError(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01"), scanErr: errStore, failAt: 2}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	_, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailySummary), refDay)
	assert.ErrorIs(t, err, errStore)
	assert.Empty(t, store.mails)
}

func TestRun_AppendError(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01"), appendErr: errStore}
	ev := &fakeEvent{}
	uc := newTestUsecase(t, Dependency{RepoStore: store, RepoEvent: ev})

	_, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailySummary), refDay)
	assert.ErrorIs(t, err, errStore)
	assert.Empty(t, ev.msgs)
}

func TestRun_BestEffortFollowUps(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01")}
	ev := &fakeEvent{err: errors.New("broker down")}
	ar := &fakeArchive{err: errors.New("bucket missing")}
	uc := newTestUsecase(t, Dependency{RepoStore: store, RepoEvent: ev, RepoArchive: ar})

	res, err := uc.Run(context.Background(), pipeline(t, entity.VariantDailyPerUser), refDay)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Mails)
	assert.Len(t, ev.msgs, 1)
}
