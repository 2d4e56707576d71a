package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/followup/internal/followup/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeReportRequest_Today(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01")}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	err := uc.ConsumeReportRequest(context.Background(), ConsumeReportRequestInput{Variant: "daily_summary"})
	require.NoError(t, err)
	require.Len(t, store.mails, 1)
	assert.Equal(t, central, store.mails[0].To)
}

func TestConsumeReportRequest_PastDate(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-01-15")}
	ev := &fakeEvent{}
	uc := newTestUsecase(t, Dependency{RepoStore: store, RepoEvent: ev})

	err := uc.ConsumeReportRequest(context.Background(), ConsumeReportRequestInput{Variant: "daily_per_user", Date: "2024-01-15"})
	require.NoError(t, err)
	require.Len(t, store.mails, 1)
	assert.Equal(t, "a@x.com", store.mails[0].To)
	require.Len(t, ev.msgs, 1)
	assert.Equal(t, "2024-01-15", ev.msgs[0].Date)
}

func TestConsumeReportRequest_InvalidInputIsDropped(t *testing.T) {
	tests := []struct {
		name string
		in   ConsumeReportRequestInput
	}{
		{name: "missing variant", in: ConsumeReportRequestInput{}},
		{name: "overdue is on demand only", in: ConsumeReportRequestInput{Variant: string(entity.VariantOverdueReport)}},
		{name: "unknown variant", in: ConsumeReportRequestInput{Variant: "weekly"}},
		{name: "bad date", in: ConsumeReportRequestInput{Variant: "daily_summary", Date: "01/02/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{users: bobAndCarl("2024-02-01")}
			uc := newTestUsecase(t, Dependency{RepoStore: store})

			assert.NoError(t, uc.ConsumeReportRequest(context.Background(), tt.in))
			assert.Zero(t, store.scans)
		})
	}
}

func TestConsumeReportRequest_RunErrorIsLogged(t *testing.T) {
	store := &fakeStore{users: bobAndCarl("2024-02-01"), scanErr: errStore}
	uc := newTestUsecase(t, Dependency{RepoStore: store})

	assert.NoError(t, uc.ConsumeReportRequest(context.Background(), ConsumeReportRequestInput{Variant: "daily_summary"}))
	assert.Equal(t, 1, store.scans)
}
