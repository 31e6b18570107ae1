// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/dreamstay/dreamstay/internal/repository"
	"codeberg.org/dreamstay/dreamstay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertEmailOTP_Create(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	err := repo.UpsertEmailOTP(ctx, "a@x.com", "123456", created)
	require.NoError(t, err)

	otp, err := repo.GetEmailOTP(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", otp.Code)
	assert.True(t, created.Equal(otp.CreatedAt))
}

func TestUpsertEmailOTP_ReplacesPending(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertEmailOTP(ctx, "a@x.com", "111111", t0))
	require.NoError(t, repo.UpsertEmailOTP(ctx, "a@x.com", "222222", t0.Add(20*time.Second)))

	otp, err := repo.GetEmailOTP(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", otp.Code)
	assert.True(t, t0.Add(20*time.Second).Equal(otp.CreatedAt))

	var count int
	require.NoError(t, db.Get(&count, `SELECT count(*) FROM email_otps WHERE email = 'a@x.com'`))
	assert.Equal(t, 1, count)
}

func TestGetEmailOTP_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetEmailOTP(context.Background(), "nobody@x.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEmailOTP(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.UpsertEmailOTP(ctx, "a@x.com", "123456", time.Now()))

	require.NoError(t, repo.DeleteEmailOTP(ctx, "a@x.com"))

	_, err := repo.GetEmailOTP(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEmailOTPsCreatedBefore(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertEmailOTP(ctx, "old@x.com", "111111", now.Add(-70*time.Second)))
	require.NoError(t, repo.UpsertEmailOTP(ctx, "new@x.com", "222222", now.Add(-10*time.Second)))
	require.NoError(t, repo.UpsertEmailOTP(ctx, "edge@x.com", "333333", now.Add(-60*time.Second)))

	n, err := repo.DeleteEmailOTPsCreatedBefore(ctx, now.Add(-time.Minute))

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetEmailOTP(ctx, "old@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetEmailOTP(ctx, "new@x.com")
	require.NoError(t, err)
	_, err = repo.GetEmailOTP(ctx, "edge@x.com")
	require.NoError(t, err)
}

func TestDeleteEmailOTPsCreatedBefore_MixedZones(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertEmailOTP(ctx, "old@x.com", "111111", now.Add(-2*time.Minute).In(ist)))

	n, err := repo.DeleteEmailOTPsCreatedBefore(ctx, now.Add(-time.Minute).In(ist))

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
