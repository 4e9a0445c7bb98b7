package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldBidID           = "bid-id"
	FieldComponent       = "component"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldFlaggedBids     = "flagged-bids"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldProductID       = "product-id"
	FieldQueue           = "queue"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTaskID          = "task-id"
	FieldTaskType        = "task-type"
	FieldTotalBids       = "total-bids"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldWindowStart     = "window-start"
)
