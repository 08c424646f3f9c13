// internal/models/report_test.go
package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

func TestReportClose(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("resolve from pending", func(t *testing.T) {
		r := &Report{Status: ReportStatusPending}
		require.NoError(t, r.Close(ReportStatusResolved, "content removed", now))
		assert.Equal(t, ReportStatusResolved, r.Status)
		assert.Equal(t, "content removed", r.Resolution)
		require.NotNil(t, r.ResolvedAt)
		assert.Equal(t, now, *r.ResolvedAt)
	})

	t.Run("dismiss from under review", func(t *testing.T) {
		r := &Report{Status: ReportStatusUnderReview}
		require.NoError(t, r.Close(ReportStatusDismissed, "no violation found", now))
		assert.Equal(t, ReportStatusDismissed, r.Status)
	})

	t.Run("resolution text is mandatory", func(t *testing.T) {
		r := &Report{Status: ReportStatusPending}
		err := r.Close(ReportStatusResolved, "", now)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, ReportStatusPending, r.Status)
	})

	t.Run("only resolved or dismissed accepted", func(t *testing.T) {
		r := &Report{Status: ReportStatusPending}
		err := r.Close(ReportStatusUnderReview, "moving along", now)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("closed reports stay closed", func(t *testing.T) {
		r := &Report{Status: ReportStatusResolved}
		err := r.Close(ReportStatusDismissed, "second opinion", now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	})
}

func TestReportEscalates(t *testing.T) {
	tests := []struct {
		targetType string
		severity   ReportSeverity
		want       bool
	}{
		{ReportTargetEntry, ReportSeverityCritical, true},
		{ReportTargetEntry, ReportSeverityHigh, true},
		{ReportTargetEntry, ReportSeverityMedium, false},
		{ReportTargetEntry, ReportSeverityLow, false},
		{ReportTargetVideo, ReportSeverityCritical, false},
		{ReportTargetVideo, ReportSeverityHigh, false},
	}

	for _, tt := range tests {
		r := &Report{TargetType: tt.targetType, Severity: tt.severity}
		assert.Equal(t, tt.want, r.Escalates(), "%s/%s", tt.targetType, tt.severity)
	}
}

func TestUserRoleSatisfies(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Satisfies(RoleAdmin))
	assert.True(t, RoleAdmin.Satisfies(RoleModerator))
	assert.True(t, RoleModerator.Satisfies(RoleViewer))
	assert.True(t, RoleCreator.Satisfies(RoleCreator))

	assert.False(t, RoleModerator.Satisfies(RoleAdmin))
	assert.False(t, RoleModerator.Satisfies(RoleCreator))
	assert.False(t, RoleCreator.Satisfies(RoleModerator))
	assert.False(t, RoleViewer.Satisfies(RoleCreator))

	// Unknown roles satisfy nothing.
	assert.False(t, UserRole("owner").Satisfies(RoleViewer))
}
