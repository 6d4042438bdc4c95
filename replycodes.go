package roadftp

// Reply codes from RFC 959 used by this client.
const (
	replyFileStatusOkay = 150 // about to open data connection

	replyCommandOkay         = 200
	replyFileStatus          = 213
	replyServiceReady        = 220
	replyClosingControl      = 221
	replyClosingData         = 226 // requested file action successful
	replyEnteringPassiveMode = 227
	replyUserLoggedIn        = 230
	replyFileActionOkay      = 250
	replyDirCreated          = 257

	replyNeedPassword      = 331
	replyFileActionPending = 350 // pending further information
)
