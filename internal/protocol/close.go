package protocol

// Close reasons sent with a policy-violation websocket close frame. These are
// shown to the user by the client, so they are human-readable sentences.
const (
	CloseInvalidCode      = "Invalid join code"
	CloseNotInChannel     = "Cannot join without being in the voice channel"
	CloseAlreadyJoined    = "Already joined in another tab"
	CloseLeftChannel      = "You left the voice channel"
	CloseMalformedMessage = "Malformed message"
	CloseNoFreeColor      = "The session is full"
)
