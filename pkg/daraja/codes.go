package daraja

// STK result codes as delivered in callbacks and status queries.
const (
	CodeSuccess           = 0
	CodeInsufficientFunds = 1
	CodeSubscriberLocked  = 1001
	CodeExpired           = 1019
	CodePushError         = 1025
	CodeCancelled         = 1032
	CodeUnreachable       = 1037
	CodeInvalidInitiator  = 2001
	CodeInternalError     = 9999
)

// ErrCodeProcessing is the business error a status query returns while the
// push is still waiting on the handset. Not a failure.
const ErrCodeProcessing = "500.001.1001"

// cancelCodes are results where the customer actively declined.
var cancelCodes = map[int]bool{
	CodeCancelled: true,
}

// timeoutCodes are results where the push aged out without an answer.
var timeoutCodes = map[int]bool{
	CodeExpired:     true,
	CodeUnreachable: true,
}

// retryCodes are congestion results where a later push can succeed.
var retryCodes = map[int]bool{
	CodeSubscriberLocked: true,
}

var codeText = map[int]string{
	CodeSuccess:           "The service request is processed successfully",
	CodeInsufficientFunds: "The balance is insufficient for the transaction",
	CodeSubscriberLocked:  "Unable to lock subscriber, a transaction is already in process",
	CodeExpired:           "Transaction has expired",
	CodePushError:         "An error occurred while sending a push request",
	CodeCancelled:         "The request was cancelled by the user",
	CodeUnreachable:       "DS timeout, the user cannot be reached",
	CodeInvalidInitiator:  "The initiator information is invalid",
	CodeInternalError:     "An error occurred while sending a push request",
}

// IsSuccess reports a completed payment.
func IsSuccess(code int) bool {
	return code == CodeSuccess
}

// IsCancelled reports a customer decline.
func IsCancelled(code int) bool {
	return cancelCodes[code]
}

// IsTimeout reports a push that expired or never reached the handset.
func IsTimeout(code int) bool {
	return timeoutCodes[code]
}

// IsRetryable reports results where retrying a fresh push makes sense.
func IsRetryable(code int) bool {
	return retryCodes[code]
}

// Describe returns the documented text for a result code.
func Describe(code int) string {
	if text, ok := codeText[code]; ok {
		return text
	}
	return "Unknown result code"
}
