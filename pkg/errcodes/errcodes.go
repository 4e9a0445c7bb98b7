package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	BidNotFound       failure.ErrorCode = "BidNotFound"
	InvalidBidID      failure.ErrorCode = "InvalidBidID"
	InvalidProductID  failure.ErrorCode = "InvalidProductID"
	InvalidCurrentCPC failure.ErrorCode = "InvalidCurrentCPC"
	InvalidTargetROAS failure.ErrorCode = "InvalidTargetROAS"

	AuditTaskNotFound failure.ErrorCode = "AuditTaskNotFound"
)
