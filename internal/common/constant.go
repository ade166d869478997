package common

// Keys under which the persisted session is stored on the client.
const (
	SessionTokenKey = "authToken"
	LoginMethodKey  = "loginMethod"
)

