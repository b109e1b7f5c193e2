package errors

import "errors"

// ErrRollbackFailed means at least one compensating increment could not
// be applied. Lesson capacity is inconsistent until reconciled by hand.
var ErrRollbackFailed = errors.New("order rollback incomplete")
