package sampler

import "codeberg.org/tovald/powerlogd/internal/errors"

const (
	ErrInvalidConfig  = errors.ErrorCode("sampler_invalid_config")
	ErrAlreadyStarted = errors.ErrorCode("sampler_already_started")
	ErrHeaderSubmit   = errors.ErrorCode("sampler_header_submit_failed")
	ErrRecordSubmit   = errors.ErrorCode("sampler_record_submit_failed")
)
