// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Users
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserSuspended      = "user.suspended"

	// Contests
	KeyContestNotFound   = "contest.not_found"
	KeyContestCreated    = "contest.created"
	KeyContestLaunched   = "contest.launched"
	KeyContestJudging    = "contest.judging"
	KeyContestCompleted  = "contest.completed"
	KeyContestCancelled  = "contest.cancelled"
	KeyContestDeleted    = "contest.deleted"
	KeyContestHasEntries = "contest.has_entries"
	KeyContestFull       = "contest.full"

	// Entries
	KeyEntryNotFound  = "entry.not_found"
	KeyEntrySubmitted = "entry.submitted"
	KeyEntryApproved  = "entry.approved"
	KeyEntryRejected  = "entry.rejected"
	KeyEntryFlagged   = "entry.flagged"
	KeyEntryScored    = "entry.scored"

	// Winners
	KeyWinnersPublished  = "winners.published"
	KeyWinnerFirstNeeded = "winners.first_required"

	// Reports
	KeyReportNotFound  = "report.not_found"
	KeyReportSubmitted = "report.submitted"
	KeyReportResolved  = "report.resolved"

	// Videos
	KeyVideoNotFound     = "video.not_found"
	KeyVideoUploaded     = "video.uploaded"
	KeyVideoUploadFailed = "video.upload_failed"

	// Payouts
	KeyPayoutRequested = "payout.requested"
	KeyPayoutTooSmall  = "payout.too_small"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
