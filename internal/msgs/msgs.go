package msgs

const (
	MsgOperationSuccessful = "operation successful"
	MsgOperationFailed     = "operation failed"
	MsgYouMustLoginFirst   = "you must login first"
	MsgMessageSaved        = "message saved"
)
